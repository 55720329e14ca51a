package eventpubsub

const (
	FeedEvent              = "FeedEvent"
	ContractChangeEvent    = "ContractChangeEvent"
	ChainViewsUpdatedEvent = "ChainViewsUpdatedEvent"
)
