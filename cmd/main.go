package main

import (
	"github.com/sfelinto/orderms/internal/app"
	"github.com/sfelinto/orderms/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
