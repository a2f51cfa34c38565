package main

import (
	"petclinic-acceptance/internal/bootstrap"
)

func main() {
	bootstrap.NewApp().Run()
}
