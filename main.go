// Package main is the entry point for the quizmetrics CLI tool, which loads
// quiz export workbooks and computes leaderboards and player analytics.
package main

import "github.com/pable/go-quiz-metrics/cmd"

func main() {
	cmd.Execute()
}
