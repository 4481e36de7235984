package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"dashgrid/pkg/export"
	"dashgrid/pkg/grid"
	"dashgrid/pkg/live"
	"dashgrid/pkg/model"
	"dashgrid/pkg/registry"
	"dashgrid/pkg/scroll"
	"dashgrid/pkg/session"
	"dashgrid/pkg/store"
	"dashgrid/pkg/ui"
)

func main() {
	configPath := flag.String("config", ".dashgrid/config.yaml", "Path to the YAML config file")
	dbPath := flag.String("db", "", "Board database path (overrides config)")
	exportSVG := flag.String("export-svg", "", "Write an SVG snapshot of the stored layout to this file and exit")
	exportNarrow := flag.Bool("narrow", false, "Export the narrow layout instead of the wide one")
	version := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *version {
		fmt.Println("dashgrid version 0.1.0")
		os.Exit(0)
	}

	cfg, err := store.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		fmt.Printf("Error opening board database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	board, err := db.LoadAll(ctx)
	if err != nil {
		fmt.Printf("Error loading board: %v\n", err)
		os.Exit(1)
	}

	reg := registry.New()
	if len(board.Widgets) == 0 {
		board = starterBoard()
	}

	if *exportSVG != "" {
		bp := grid.Wide
		if *exportNarrow {
			bp = grid.Narrow
		}
		if err := writeSnapshot(*exportSVG, board, bp, reg); err != nil {
			fmt.Printf("Error exporting snapshot: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s layout snapshot to %s\n", bp, *exportSVG)
		return
	}

	// Session observers and the live feed both deliver through one channel
	// so everything serializes onto the bubbletea event loop.
	msgs := make(chan tea.Msg, 16)
	sess := session.New(db, reg, board,
		session.WithSuppressWindow(cfg.SuppressWindow()),
		session.WithObservers(session.Observers{
			OnError: func(title, message string) {
				msgs <- ui.ErrorMsg{Title: title, Message: message}
			},
		}),
	)

	feed, err := live.NewFeed(cfg.FeedDir)
	if err != nil {
		log.Printf("Warning: live feed disabled: %v", err)
	} else {
		defer feed.Close()
		for _, topic := range []string{"media", "downloads", "sysload"} {
			topic := topic
			feed.Subscribe(topic,
				func(payload []byte) { msgs <- ui.LiveDataMsg{Topic: topic, Payload: payload} },
				func(err error) { msgs <- ui.LiveErrMsg{Err: err} },
			)
		}
	}

	scrollCfg := scroll.Config{
		GracePx:  cfg.Scroll.GracePx,
		EdgePx:   cfg.Scroll.EdgePx,
		MinSpeed: cfg.Scroll.MinSpeed,
		MaxSpeed: cfg.Scroll.MaxSpeed,
	}

	m := ui.NewModel(sess, reg, scrollCfg, msgs)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running dashgrid: %v\n", err)
		os.Exit(1)
	}
}

// starterBoard seeds a first-run database with a small sensible layout.
func starterBoard() model.Board {
	return model.Board{
		Linkage: model.LinkageLinked,
		Widgets: []model.Widget{
			{ID: "clock-1", Type: "clock", Wide: model.Layout{X: 0, Y: 0, W: 4, H: 2},
				Config: model.ClockConfig{TwentyFourHour: true}},
			{ID: "weather-1", Type: "weather", Wide: model.Layout{X: 4, Y: 0, W: 6, H: 3},
				Config: model.WeatherConfig{Location: "Berlin", Units: "metric"}},
			{ID: "media-1", Type: "media", Wide: model.Layout{X: 10, Y: 0, W: 8, H: 4}},
			{ID: "downloads-1", Type: "downloads", Wide: model.Layout{X: 0, Y: 4, W: 12, H: 4},
				Config: model.DownloadsConfig{Topic: "downloads"}},
			{ID: "note-1", Type: "note", Wide: model.Layout{X: 12, Y: 4, W: 6, H: 4},
				Config: model.NoteConfig{Body: "# Welcome\nPress `e` to edit the layout."}},
		},
	}
}

func writeSnapshot(path string, board model.Board, bp grid.Breakpoint, reg *registry.Registry) error {
	if bp == grid.Narrow {
		derived := grid.DeriveNarrow(board.Widgets, reg)
		grid.ApplyNarrow(board.Widgets, derived)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	export.WriteSVG(f, grid.BuildItems(board.Widgets, bp, reg), bp)
	return nil
}
