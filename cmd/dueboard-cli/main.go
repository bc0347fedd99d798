package main

import (
	"context"

	"dueboard/cmd/dueboard-cli/commands"
	"dueboard/lib/telemetry"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "dueboard-cli")
	telemetry.InitSlog(true)
	commands.ExecuteContext(context.Background())
}
