package idutil

import "github.com/bwmarrin/snowflake"

type Generator interface {
	Generate() int64
}

type snowflakeGenerator struct {
	node *snowflake.Node
}

// NewSnowflakeGenerator returns a generator of time-ordered ids. Ids of the
// same node strictly increase.
func NewSnowflakeGenerator(node int64) (*snowflakeGenerator, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, err
	}

	return &snowflakeGenerator{node: n}, nil
}

func (g *snowflakeGenerator) Generate() int64 {
	return g.node.Generate().Int64()
}
