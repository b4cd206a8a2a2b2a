package domain

import (
	"bytes"
	"testing"
	"time"

	"github.com/asolution/raffle/internal/common"
	"github.com/asolution/raffle/internal/entity"
	"github.com/asolution/raffle/internal/model"
	"github.com/asolution/raffle/internal/testutil"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func Test_raffleDomain_Reset(t *testing.T) {
	ctx, _ := newRaffleContext(t0PlusHour, 1, "alice", "bob")
	redisClient, store := testutil.NewMemoryRedisClient()
	d := newTestDomains(redisClient)

	_, err := d.winner.Draw(ctx, &model.DrawWinnersRequest{})
	require.NoError(t, err)
	_, err = d.winner.Publish(ctx, &model.PublishWinnersRequest{})
	require.NoError(t, err)
	_, err = d.winner.Draw(ctx, &model.DrawWinnersRequest{})
	require.NoError(t, err)
	_, err = d.winner.GetWinners(ctx, &model.GetWinnersRequest{PublishedOnly: true})
	require.NoError(t, err)
	require.Contains(t, store, common.RedisKeyPublishedWinners)

	_, err = d.raffle.Reset(ctx, &model.ResetRaffleRequest{})
	require.NoError(t, err)

	require.Zero(t, testutil.CountRows(ctx, &entity.Winner{}))
	require.Zero(t, testutil.CountRows(ctx, &entity.Entry{}))
	require.Zero(t, testutil.CountRows(ctx, &entity.RaffleSettings{}))
	require.NotContains(t, store, common.RedisKeyPublishedWinners)

	settings, err := d.settings.GetSettings(ctx, &model.GetSettingsRequest{})
	require.NoError(t, err)
	require.Nil(t, settings.Settings)

	winners, err := d.winner.GetWinners(ctx, &model.GetWinnersRequest{PublishedOnly: true})
	require.NoError(t, err)
	require.Empty(t, winners.Winners)

	// Reset on an empty raffle is fine.
	_, err = d.raffle.Reset(ctx, &model.ResetRaffleRequest{})
	require.NoError(t, err)
}

func Test_raffleDomain_ExportEntries(t *testing.T) {
	ctx, _ := newRaffleContext(t0.Add(time.Minute), 1, "alice", "bob")
	d := newTestDomains(nil)

	resp, err := d.raffle.ExportEntries(ctx, &model.ExportEntriesRequest{})
	require.NoError(t, err)
	require.Equal(t, "entries.xlsx", resp.Filename)

	rows := readSheet(t, resp.Data, "Entries")
	require.Len(t, rows, 3)
	require.Equal(t, []string{"Name", "Contact", "Phone", "Source", "Created At"}, rows[0])
	require.Equal(t, "bob", rows[1][0])
	require.Equal(t, "bob@example.com", rows[1][1])
	require.Equal(t, "admin", rows[1][3])
	require.Equal(t, "alice", rows[2][0])
}

func Test_raffleDomain_ExportWinners(t *testing.T) {
	ctx, _ := newRaffleContext(t0PlusHour, 2, "alice", "bob", "carol")
	d := newTestDomains(nil)

	_, err := d.winner.Draw(ctx, &model.DrawWinnersRequest{})
	require.NoError(t, err)

	resp, err := d.raffle.ExportWinners(ctx, &model.ExportWinnersRequest{})
	require.NoError(t, err)
	rows := readSheet(t, resp.Data, "Winners")
	require.Len(t, rows, 3)
	require.Equal(t, "Rank", rows[0][0])
	require.Equal(t, "1", rows[1][0])
	require.Equal(t, "draft", rows[1][4])

	resp, err = d.raffle.ExportWinners(ctx, &model.ExportWinnersRequest{PublishedOnly: true})
	require.NoError(t, err)
	rows = readSheet(t, resp.Data, "Winners")
	require.Len(t, rows, 1)

	_, err = d.winner.Publish(ctx, &model.PublishWinnersRequest{})
	require.NoError(t, err)

	resp, err = d.raffle.ExportWinners(ctx, &model.ExportWinnersRequest{PublishedOnly: true})
	require.NoError(t, err)
	rows = readSheet(t, resp.Data, "Winners")
	require.Len(t, rows, 3)
	require.Equal(t, "published", rows[2][4])
	require.NotEmpty(t, rows[2][6])
}

func readSheet(t *testing.T, data []byte, sheet string) [][]string {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}
