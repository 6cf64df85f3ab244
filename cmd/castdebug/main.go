// Command castdebug dials a single Cast receiver and prints its receiver
// status, then exits. It is a manual smoke-test tool, not a general Cast
// CLI: queueing, app launch flags, and interactive control are out of
// scope.
package main

import (
	"context"
	"encoding/json"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sebas/gocast"
	"github.com/sebas/gocast/internal/banner"
	"github.com/sebas/gocast/internal/castconfig"
	"github.com/sebas/gocast/internal/logger"
)

func main() {
	cfg := castconfig.Load()
	log := logger.New(os.Stdout)
	logger.SetLevel(cfg.LogLevel)

	if len(os.Args) < 2 {
		log.Error("usage: castdebug <host>")
		os.Exit(1)
	}
	host := os.Args[1]

	banner.Print("gocast debug client", []banner.ConfigLine{
		{Label: "host", Value: host},
		{Label: "port", Value: strconv.Itoa(cfg.Port)},
		{Label: "user-agent", Value: cfg.UserAgent},
		{Label: "loglevel", Value: cfg.LogLevel},
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	dialCtx, dialCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dialCancel()

	device := cast.Device{Addr: castAddr(host, cfg.Port)}
	client, err := cast.Dial(dialCtx, device, cfg.ChannelConfig(), log)
	if err != nil {
		log.Error("dial failed", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	status, err := client.GetStatus(ctx)
	if err != nil {
		log.Error("get status failed", "error", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		log.Error("marshal status failed", "error", err)
		os.Exit(1)
	}
	os.Stdout.Write(out)
	os.Stdout.Write([]byte("\n"))
}

func castAddr(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
