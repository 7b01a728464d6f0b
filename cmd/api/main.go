package main

import (
	"fmt"
	"os"

	"github.com/lumenlearn/progression-backend/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	application.Start()

	addr := ":" + application.Cfg.Port
	fmt.Printf("Server listening on %s\n", addr)
	if err := application.Run(addr); err != nil {
		application.Log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
