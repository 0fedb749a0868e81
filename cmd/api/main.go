package main

import "github.com/TheStackSquad/the-almaroof-initiative-sub001/internal/app"

// @title           Almaroof Initiative identity & permit-payment API
// @version         1.0
// @description     Citizen identity, permit applications and gateway-reconciled payments.
// @BasePath        /
func main() {
	app.Run()
}
