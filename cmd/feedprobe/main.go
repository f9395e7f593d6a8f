package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/park285/boardwatch/internal/notify"
	"github.com/park285/boardwatch/internal/occupancy"
	"github.com/park285/boardwatch/internal/visionfeed"
	"github.com/park285/boardwatch/pkg/syncdto"
)

func main() {
	wsURL := os.Getenv("VISION_WS_URL")
	notifyURL := os.Getenv("NOTIFY_BASE_URL")
	authToken := os.Getenv("AUTH_TOKEN")

	if wsURL == "" {
		log.Fatal("VISION_WS_URL is required")
	}

	headers := func() map[string]string {
		m := map[string]string{}
		if authToken != "" {
			m["Authorization"] = "Bearer " + authToken
		}
		return m
	}

	if notifyURL != "" {
		client := notify.NewClient(notifyURL,
			notify.WithHeaderProvider(headers),
			notify.WithTimeout(8*time.Second),
		)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := client.Health(ctx)
		cancel()
		if err != nil {
			log.Printf("/health error: %v", err)
		} else {
			log.Println("/health ok")
		}
	} else {
		log.Println("NOTIFY_BASE_URL not set; skipping health check")
	}

	ws := visionfeed.NewWebSocket(wsURL, 5, time.Second)
	ws.SetHeaderProvider(headers)
	ws.OnStateChange(func(state visionfeed.ConnState) {
		log.Printf("WS state: %s", state)
	})
	ws.OnFrame(func(frame *syncdto.Frame) {
		grid, err := occupancy.FromRows(frame.Grid, frame.Classes)
		if err != nil {
			log.Printf("WS frame rejected: %v", err)
			return
		}
		fmt.Printf("WS frame type=%s ts=%s\n%s\n", frame.Type, frame.Timestamp(), grid)
	})

	cctx, ccancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer ccancel()
	if err := ws.Connect(cctx); err != nil {
		log.Printf("WS connect error: %v", err)
		return
	}

	// Observe for a short window
	t := time.NewTimer(15 * time.Second)
	<-t.C

	_ = ws.Close(context.Background())
}
