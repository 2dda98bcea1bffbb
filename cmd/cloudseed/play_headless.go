//go:build headless

package main

import "errors"

func runPlay([]string) error {
	return errors.New("play: built with the headless tag, no audio output available")
}
