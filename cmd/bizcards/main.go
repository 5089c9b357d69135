// Command bizcards turns a contact list into print-ready business cards.
//
//	bizcards generate contacts.csv --out cards/
//	bizcards parse contacts.csv --format xlsx --output contacts.xlsx
//	bizcards serve
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		reportError(err)
		os.Exit(1)
	}
}
