//go:build js && wasm

// Command glpipe-web runs a demo in the browser on <canvas id="c">.
// The demo is chosen by the page query, e.g. index.html?demo=translation;
// the default is hello-world. Random demos are seeded from the clock.
//
// Build:
//
//	GOOS=js GOARCH=wasm go build -o glpipe.wasm ./cmd/glpipe-web
package main

import (
	"log"
	"log/slog"
	"os"
	"syscall/js"

	"github.com/gogpu/glpipe"
	"github.com/gogpu/glpipe/backend/webgl"
	"github.com/gogpu/glpipe/demo"
)

func main() {
	glpipe.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg := demo.DefaultConfig()
	cfg.Seed = uint64(js.Global().Get("Date").Call("now").Float())
	query := js.Global().Get("URLSearchParams").New(js.Global().Get("location").Get("search"))
	if name := query.Call("get", "demo"); !name.IsNull() {
		cfg.Demo = name.String()
	}

	d, err := demo.Lookup(cfg.Demo, cfg)
	if err != nil {
		log.Fatalf("glpipe-web: %v", err)
	}

	canvas, err := webgl.FindCanvas("c")
	if err != nil {
		canvas = webgl.CreateCanvas(cfg.Width, cfg.Height)
	}
	dev, err := webgl.New(canvas)
	if err != nil {
		log.Fatalf("glpipe-web: %v", err)
	}
	if _, err := demo.Run(dev, canvas, d, cfg.Options()...); err != nil {
		log.Printf("glpipe-web: %v", err)
	}
}
