package main

import "omnisnt_backend/internal/app"

func main() {
	app.Run()
}
