// Command redikv starts the key-value server: load configuration, open
// the append-only log and replay it, then accept connections until a
// termination signal arrives.
package main

import (
	"log"

	"redikv/internal/aof"
	"redikv/internal/config"
	"redikv/internal/logging"
	"redikv/internal/pubsub"
	"redikv/internal/server"
	"redikv/internal/store"
)

func main() {
	sink := logging.Default

	props, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db := store.New()
	broker := pubsub.New()

	var aofLog *aof.AOF
	if props.AppendOnly {
		aofLog, err = aof.Open(props.Dir, props.AppendFilename, aof.ParsePolicy(props.AppendFsync), sink)
		if err != nil {
			log.Fatal(err)
		}
		defer aofLog.Close()
	}

	srv := server.New(db, broker, aofLog, sink)

	if props.AppendOnly {
		n, err := srv.Replay()
		if err != nil {
			log.Fatal(err)
		}
		sink.Info("loaded commands from AOF", "count", n)
		if err := aofLog.SetReplayCount(n); err != nil {
			sink.Warn("failed to record replay count", "error", err)
		}
	}

	if err := srv.ListenAndServeWithSignal(server.AddrFrom(props)); err != nil {
		log.Fatal(err)
	}
}
