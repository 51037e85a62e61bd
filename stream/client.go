// Copyright (c) 2025 Neomantra Corp

package stream

import (
	"bufio"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"

	"github.com/segmentio/encoding/json"
)

const (
	// DefaultHost and DefaultPort are Betfair's production stream
	// gateway (spec §6.3).
	DefaultHost = "stream-api.betfair.com"
	DefaultPort = 443

	sessionEnvKey = "BETFAIR_SESSION_TOKEN"
	appKeyEnvKey  = "BETFAIR_APP_KEY"
)

// Config configures a Client connection.
type Config struct {
	Logger  *slog.Logger
	Host    string
	Port    int
	Session string
	AppKey  string
	Verbose bool
}

// SetFromEnv fills Session and AppKey from BETFAIR_SESSION_TOKEN and
// BETFAIR_APP_KEY, matching the teacher's LiveConfig.SetFromEnv
// convention for Databento's API key envvars.
func (c *Config) SetFromEnv() error {
	if v := os.Getenv(sessionEnvKey); v != "" {
		c.Session = v
	}
	if v := os.Getenv(appKeyEnvKey); v != "" {
		c.AppKey = v
	}
	if c.Session == "" {
		return fmt.Errorf("expected environment variable %s to be set", sessionEnvKey)
	}
	if c.AppKey == "" {
		return fmt.Errorf("expected environment variable %s to be set", appKeyEnvKey)
	}
	return nil
}

func (c *Config) validate() error {
	if c.Session == "" {
		return errors.New("field Session is unset")
	}
	if c.AppKey == "" {
		return errors.New("field AppKey is unset")
	}
	return nil
}

// Client is a connection to Betfair's live exchange stream. Unlike the
// core Decoder, it owns a network connection and the authentication
// handshake; once Authenticate and Subscribe succeed, its Reader()
// yields the same newline-terminated JSON frames a file-based source
// would, so a caller wraps it in betfair.NewDecoder exactly as it would
// an opened file.
type Client struct {
	config Config
	conn   net.Conn
	reader *bufio.Reader
	logger *slog.Logger

	connectionID string
	nextID       int
}

// NewClient dials Betfair's stream gateway over TLS and reads the
// server's initial ConnectionMessage. It does not authenticate or
// subscribe; call Authenticate then Subscribe next.
func NewClient(config Config) (*Client, error) {
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if config.Host == "" {
		config.Host = DefaultHost
	}
	if config.Port == 0 {
		config.Port = DefaultPort
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	hostPort := fmt.Sprintf("%s:%d", config.Host, config.Port)
	conn, err := tls.Dial("tcp", hostPort, &tls.Config{ServerName: config.Host})
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", hostPort, err)
	}

	c := &Client{
		config: config,
		conn:   conn,
		reader: bufio.NewReaderSize(conn, 24*1024),
		logger: logger,
	}

	var connMsg ConnectionMessage
	if err := c.readInto(&connMsg); err != nil {
		conn.Close()
		return nil, fmt.Errorf("reading connection message: %w", err)
	}
	c.connectionID = connMsg.ConnectionID
	if config.Verbose {
		logger.Info("stream connected", "hostport", hostPort, "connectionId", c.connectionID)
	}
	return c, nil
}

// ConnectionID returns the id the server assigned this connection.
func (c *Client) ConnectionID() string { return c.connectionID }

// Authenticate sends the authentication message and waits for a
// SUCCESS/FAILURE StatusMessage, returning a *betfair.StreamError on
// failure.
func (c *Client) Authenticate() error {
	c.nextID++
	req := AuthenticationMessage{Op: "authentication", ID: c.nextID, Session: c.config.Session, AppKey: c.config.AppKey}
	if err := c.writeLine(req); err != nil {
		return fmt.Errorf("sending authentication request: %w", err)
	}

	var status StatusMessage
	if err := c.readInto(&status); err != nil {
		return fmt.Errorf("reading authentication response: %w", err)
	}
	if status.StatusCode != StatusCodeSuccess {
		return errorFromStatus(status)
	}
	if c.config.Verbose {
		c.logger.Info("stream authenticated", "connectionId", c.connectionID)
	}
	return nil
}

// Subscribe sends a marketSubscription request and waits for its
// acknowledging StatusMessage.
func (c *Client) Subscribe(filter MarketFilter, dataFilter MarketDataFilter) error {
	c.nextID++
	req := MarketSubscriptionMessage{
		Op:               "marketSubscription",
		ID:               c.nextID,
		MarketFilter:     filter,
		MarketDataFilter: dataFilter,
	}
	if err := c.writeLine(req); err != nil {
		return fmt.Errorf("sending market subscription: %w", err)
	}

	var status StatusMessage
	if err := c.readInto(&status); err != nil {
		return fmt.Errorf("reading subscription response: %w", err)
	}
	if status.StatusCode != StatusCodeSuccess {
		return errorFromStatus(status)
	}
	if c.config.Verbose {
		c.logger.Info("stream subscribed", "connectionId", c.connectionID)
	}
	return nil
}

// Heartbeat sends a heartbeat request, used to keep the connection alive
// between market updates.
func (c *Client) Heartbeat() error {
	c.nextID++
	return c.writeLine(HeartbeatMessage{Op: "heartbeat", ID: c.nextID})
}

// Reader returns the underlying connection as an io.Reader of
// newline-terminated JSON frames, suitable for betfair.NewDecoder. Any
// bytes already buffered by Authenticate/Subscribe's response reads are
// preserved (the bufio.Reader is what's returned, not the raw conn).
func (c *Client) Reader() *bufio.Reader { return c.reader }

// Close closes the underlying connection.
func (c *Client) Close() error { return c.conn.Close() }

func (c *Client) writeLine(v any) error {
	line, err := encodeLine(v)
	if err != nil {
		return err
	}
	n, err := c.conn.Write(line)
	if err != nil {
		return err
	}
	if n != len(line) {
		return fmt.Errorf("short write: wanted %d wrote %d", len(line), n)
	}
	return nil
}

func (c *Client) readInto(v any) error {
	line, err := c.reader.ReadBytes('\n')
	if err != nil {
		return err
	}
	return json.Unmarshal(line, v)
}
