package main

import (
	"flag"
	"log"

	"github.com/Garsondee/Burrow-Sense/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	var level int
	var editor bool
	flag.IntVar(&level, "level", 0, "catalogue index of the first level")
	flag.BoolVar(&editor, "editor", false, "enable alt+click terrain painting and clipboard export")
	flag.Parse()

	levels, err := game.DefaultLevels()
	if err != nil {
		log.Fatal(err)
	}
	g, err := game.New(levels, level, editor)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowTitle("Burrow Sense")
	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
