package main

import (
	"trainr/config"
	"trainr/database"
	"trainr/logger"
	"trainr/routers"
	"trainr/utils"
)

func main() {
	config.LoadConfig()
	if err := logger.Init(config.AppConfig.LogMode); err != nil {
		panic(err)
	}
	defer logger.Log.Sync()

	database.ConnectDb()

	sweep, err := utils.InitializeProgressScheduler(config.AppConfig.ProgressSweepSpec)
	if err != nil {
		logger.Log.Fatal("starting enrollment sweep", "error", err)
	}
	defer sweep.Stop()

	app := routers.NewApp(true)

	logger.Log.Info("server is running", "port", config.AppConfig.Port)
	if err := app.Listen(":" + config.AppConfig.Port); err != nil {
		logger.Log.Fatal("server stopped", "error", err)
	}
}
