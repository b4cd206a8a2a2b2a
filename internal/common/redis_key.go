package common

// RedisKeyPublishedWinners holds the latest published batch with its draw
// info.
const RedisKeyPublishedWinners = "raffle:winners:published"
