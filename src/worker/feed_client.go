package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/jiaming2012/txo-chain/src/eventmodels"
	"github.com/jiaming2012/txo-chain/src/eventpubsub"
)

const (
	feedReadTimeout    = 30 * time.Second
	feedReconnectDelay = 2 * time.Second
)

// FeedClient reads the market feed websocket and republishes every decoded
// message on the ingestion topic.
type FeedClient struct {
	wg             *sync.WaitGroup
	url            string
	dialer         *websocket.Dialer
	readTimeout    time.Duration
	reconnectDelay time.Duration
	published      atomic.Uint64
	dropped        atomic.Uint64
}

func NewFeedClient(wg *sync.WaitGroup, url string) *FeedClient {
	return &FeedClient{
		wg:             wg,
		url:            url,
		dialer:         websocket.DefaultDialer,
		readTimeout:    feedReadTimeout,
		reconnectDelay: feedReconnectDelay,
	}
}

func (c *FeedClient) Published() uint64 {
	return c.published.Load()
}

func (c *FeedClient) Dropped() uint64 {
	return c.dropped.Load()
}

func (c *FeedClient) connect(ctx context.Context) (*websocket.Conn, error) {
	log.Infof("feed: connecting to %s", c.url)

	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("feed: connect: %w", err)
	}

	if conn == nil {
		return nil, fmt.Errorf("feed: failed to connect to websocket server: connection is nil")
	}

	return conn, nil
}

// handleMessage publishes one feed message. A message that cannot be
// decoded is dropped without affecting the rest of the stream.
func (c *FeedClient) handleMessage(message []byte) error {
	var envelope eventmodels.FeedEnvelope
	if err := json.Unmarshal(message, &envelope); err != nil {
		c.dropped.Add(1)
		return fmt.Errorf("feed: failed to unmarshal envelope: %w", err)
	}

	event, err := envelope.Decode()
	if err != nil {
		c.dropped.Add(1)
		return fmt.Errorf("feed: %w", err)
	}

	if err := eventpubsub.PublishFeedEvent("FeedClient", event); err != nil {
		c.dropped.Add(1)
		return err
	}

	c.published.Add(1)
	return nil
}

// readLoop returns when the connection fails or ctx is done.
func (c *FeedClient) readLoop(ctx context.Context, conn *websocket.Conn) error {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		conn.SetReadDeadline(time.Now().UTC().Add(c.readTimeout))
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			return fmt.Errorf("ReadMessage(): %w", err)
		}

		if err := c.handleMessage(message); err != nil {
			log.WithField("event", "feed").Warnf("dropped message: %v", err)
		}
	}
}

func (c *FeedClient) run(ctx context.Context) {
	defer c.wg.Done()

	for {
		conn, err := c.connect(ctx)
		if err == nil {
			err = c.readLoop(ctx, conn)
			if e := conn.Close(); e != nil && ctx.Err() == nil {
				log.Debugf("feed: error closing old connection: %v", e)
			}
		}

		if ctx.Err() != nil {
			log.Info("feed: stopping websocket client")
			return
		}

		log.Errorf("feed: %v, reconnecting in %v", err, c.reconnectDelay)

		select {
		case <-ctx.Done():
			log.Info("feed: stopping websocket client")
			return
		case <-time.After(c.reconnectDelay):
		}
	}
}

func (c *FeedClient) Start(ctx context.Context) {
	c.wg.Add(1)
	go c.run(ctx)
}
