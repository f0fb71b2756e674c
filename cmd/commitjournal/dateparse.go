package main

import (
	"errors"
	"sync"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var (
	whenOnce   sync.Once
	whenParser *when.Parser
)

func naturalDateParser() *when.Parser {
	whenOnce.Do(func() {
		w := when.New(nil)
		w.Add(en.All...)
		w.Add(common.All...)
		whenParser = w
	})
	return whenParser
}

// parseNaturalDate resolves phrases like "yesterday" or "last monday"
// against the current time, for --date flags across every subcommand.
func parseNaturalDate(raw string) (time.Time, error) {
	res, err := naturalDateParser().Parse(raw, time.Now())
	if err != nil {
		return time.Time{}, err
	}
	if res == nil {
		return time.Time{}, errors.New("no date phrase recognized")
	}
	return res.Time, nil
}
