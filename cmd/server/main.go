package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"todolist/internal/config"
	"todolist/internal/server"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("server initialization failed")
	}

	s.Run()
}
