package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/tassot/tassot/internal/config"
	"github.com/tassot/tassot/internal/logger"
	"github.com/tassot/tassot/internal/migration"
	"github.com/tassot/tassot/internal/server"
	"github.com/tassot/tassot/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
	)

	app.Run()
}

func RegisterSnowflake() (*snowflake.Node, error) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, err
	}
	return node, nil
}
