// Package dispatch maps an action name to the single operation docsmake runs
// for it.
//
// Four names are reserved: help, generate, readme and copy-examples. Every
// other name is forwarded untouched to the documentation builder as its build
// mode, so builder-native targets such as html, latexpdf or linkcheck work
// without docsmake knowing about them. An empty name means help.
package dispatch
