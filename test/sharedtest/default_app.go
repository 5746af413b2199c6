package sharedtest

import "sync"

var makeDefaultAppOnce sync.Once
var defaultTestApp *App

func GetDefaultTestApp() *App {
	makeDefaultAppOnce.Do(func() {
		defaultTestApp = RunApp()
	})
	return defaultTestApp
}
