// xiangqi-server serves the WebSocket analysis protocol over a TCP port. It
// has no exit codes of its own: it stays resident until the process is
// killed, driven entirely by the WebSocket front end.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/seekerror/logw"
	"github.com/troppydash/xiangqi-go/pkg/wsserver"
)

var addr = flag.String("addr", wsserver.DefaultAddr, "Listen address")

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: xiangqi-server [options]

xiangqi-server serves the WebSocket analysis protocol.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	s := wsserver.New(*addr)
	if err := s.ListenAndServe(ctx); err != nil {
		logw.Exitf(ctx, "server failed: %v", err)
	}
}
