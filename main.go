/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/araki-m/hondana/cmd"

func main() {
	cmd.Execute()
}
