package main

import (
	"github.com/aurastore/backend/order/internal/app"
	"github.com/aurastore/backend/order/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
