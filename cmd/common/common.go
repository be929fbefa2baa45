// Package common holds output helpers shared by the nfptool commands.
package common

const (
	// CheckMark prefixes success lines.
	CheckMark = "\033[32m✔\033[0m"
	// WarningSign prefixes warnings and fatal command errors.
	WarningSign = "\033[31m✘\033[0m"
)
