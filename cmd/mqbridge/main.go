// SPDX-License-Identifier: GPL-3.0-or-later

// mqbridge is a command line front end over the bridge package: connect to
// a queue manager, list and administer queues, browse, send and delete
// messages. With --demo it runs against a built-in simulated queue manager
// seeded with sample queues, so every operation can be exercised without a
// server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/queueworks/mqbridge/bridge"
	"github.com/queueworks/mqbridge/logger"
	"github.com/queueworks/mqbridge/mqi"
	"github.com/queueworks/mqbridge/mqsim"
)

type options struct {
	Config   string `short:"c" long:"config" description:"endpoint configuration file (YAML)"`
	Demo     bool   `long:"demo" description:"run against a built-in simulated queue manager"`
	Debug    bool   `short:"d" long:"debug" description:"debug logging"`
	LogLevel string `short:"l" long:"log-level" description:"log level" default:"info"`

	QueueManager string `long:"qmgr" description:"queue manager name (overrides config)"`
	Channel      string `long:"channel" description:"server connection channel (overrides config)"`
	Host         string `long:"host" description:"host name or address (overrides config)"`
	Port         int    `long:"port" description:"listener port (overrides config)"`
	User         string `long:"user" description:"user id for channel authentication"`
	Password     string `long:"password" description:"password for channel authentication"`

	List    bool   `long:"list" description:"list queues"`
	Filter  string `long:"filter" description:"queue name filter for --list, exact or with a trailing *"`
	Info    string `long:"info" description:"show attributes of one queue" value-name:"QUEUE"`
	Browse  string `long:"browse" description:"browse messages non-destructively" value-name:"QUEUE"`
	Limit   int    `long:"limit" description:"maximum messages to browse" default:"50"`
	MaxSize int32  `long:"max-size" description:"payload bytes to fetch per browsed message" default:"4096"`
	Send    string `long:"send" description:"send a message" value-name:"QUEUE"`
	Text    string `long:"text" description:"payload for --send" default:"hello from mqbridge"`
	Purge   string `long:"purge" description:"destructively drain a queue" value-name:"QUEUE"`
	Create  string `long:"create" description:"create a local queue" value-name:"QUEUE"`
	Delete  string `long:"delete" description:"delete a queue" value-name:"QUEUE"`

	Timeout time.Duration `long:"timeout" description:"overall operation timeout" default:"30s"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[OPTIONS]"
	if _, err := parser.Parse(); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		os.Exit(1)
	}

	logger.Level.SetByName(opts.LogLevel)
	if opts.Debug {
		logger.Level.Set(slog.LevelDebug)
	}
	log := logger.New().With(slog.String("component", "mqbridge"))

	cfg, conn, err := buildEndpoint(&opts)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()

	client := bridge.NewClient(cfg, conn, log)
	if err := client.Connect(ctx); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
	defer client.Disconnect()

	if err := run(ctx, client, &opts); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

// buildEndpoint resolves the connection parameters and the transport. Demo
// mode wires a seeded in-memory queue manager; otherwise the endpoint comes
// from the config file and flag overrides. Without a vendor transport
// compiled in, non-demo connects report the queue manager as unavailable.
func buildEndpoint(opts *options) (bridge.Config, mqi.Conn, error) {
	if opts.Demo {
		qm := mqsim.New("DEMO.QM",
			mqsim.WithQueue("DEV.QUEUE.1", 0),
			mqsim.WithQueue("DEV.QUEUE.2", 0),
			mqsim.WithQueue("DEV.ORDERS", 200),
		)
		qm.Seed("DEV.QUEUE.1", "first sample message", "second sample message", "third sample message")
		qm.Seed("DEV.ORDERS", `{"order":1041,"state":"new"}`)
		cfg := bridge.Config{
			QueueManager: "DEMO.QM",
			Channel:      "DEV.APP.SVRCONN",
			Host:         "localhost",
			Port:         1414,
		}
		return cfg, qm, nil
	}

	cfg := bridge.Config{}
	if opts.Config != "" {
		loaded, err := loadEndpointConfig(opts.Config)
		if err != nil {
			return bridge.Config{}, nil, err
		}
		cfg = loaded
	}
	if opts.QueueManager != "" {
		cfg.QueueManager = opts.QueueManager
	}
	if opts.Channel != "" {
		cfg.Channel = opts.Channel
	}
	if opts.Host != "" {
		cfg.Host = opts.Host
	}
	if opts.Port != 0 {
		cfg.Port = opts.Port
	}
	if opts.User != "" {
		cfg.User = opts.User
	}
	if opts.Password != "" {
		cfg.Password = opts.Password
	}
	return cfg, mqi.Unavailable{}, nil
}

func run(ctx context.Context, client *bridge.Client, opts *options) error {
	ran := false

	if opts.Create != "" {
		ran = true
		if err := client.CreateQueue(ctx, opts.Create, bridge.CreateQueueOptions{}); err != nil {
			return err
		}
		fmt.Printf("created %s\n", opts.Create)
	}
	if opts.Send != "" {
		ran = true
		msgID, err := client.SendMessage(ctx, opts.Send, bridge.SendOptions{Payload: []byte(opts.Text)})
		if err != nil {
			return err
		}
		fmt.Printf("sent %d bytes to %s, message id %X\n", len(opts.Text), opts.Send, msgID)
	}
	if opts.Browse != "" {
		ran = true
		if err := browse(ctx, client, opts.Browse, opts.Limit, opts.MaxSize); err != nil {
			return err
		}
	}
	if opts.Info != "" {
		ran = true
		info, err := client.GetQueueInfo(ctx, opts.Info)
		if err != nil {
			return err
		}
		printQueues([]bridge.QueueInfo{info})
	}
	if opts.Purge != "" {
		ran = true
		n, err := client.PurgeQueue(ctx, opts.Purge)
		if err != nil {
			return err
		}
		fmt.Printf("purged %d messages from %s\n", n, opts.Purge)
	}
	if opts.Delete != "" {
		ran = true
		if err := client.DeleteQueue(ctx, opts.Delete); err != nil {
			return err
		}
		fmt.Printf("deleted %s\n", opts.Delete)
	}

	// Listing is also the default action when nothing else was asked for.
	if opts.List || !ran {
		queues, err := client.ListQueues(ctx, opts.Filter)
		if err != nil {
			return err
		}
		printQueues(queues)
	}
	return nil
}

func browse(ctx context.Context, client *bridge.Client, queueName string, limit int, maxSize int32) error {
	messages, err := client.BrowseMessages(ctx, queueName, limit, maxSize)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		fmt.Printf("%s is empty\n", queueName)
		return nil
	}
	for _, m := range messages {
		ts := "-"
		if m.HasPutTimestamp() {
			ts = m.PutTimestamp.Format(time.RFC3339)
		}
		marker := ""
		if m.Truncated() {
			marker = fmt.Sprintf(" (truncated, %d bytes total)", m.TotalLength)
		}
		fmt.Printf("#%d id=%X put=%s format=%s %q%s\n",
			m.Position, m.MessageID, ts, m.Format, m.PayloadString(), marker)
	}
	return nil
}

func printQueues(queues []bridge.QueueInfo) {
	if len(queues) == 0 {
		fmt.Println("no queues")
		return
	}
	fmt.Printf("%-48s %-8s %8s %8s %6s %6s %s\n", "QUEUE", "TYPE", "DEPTH", "MAXDEPTH", "IN", "OUT", "INHIBIT")
	for _, q := range queues {
		inhibit := "-"
		switch {
		case q.GetInhibited && q.PutInhibited:
			inhibit = "get,put"
		case q.GetInhibited:
			inhibit = "get"
		case q.PutInhibited:
			inhibit = "put"
		}
		fmt.Printf("%-48s %-8s %8d %8d %6d %6d %s\n",
			q.Name, q.Type, q.CurrentDepth, q.MaxDepth, q.OpenInputCount, q.OpenOutputCount, inhibit)
	}
}
