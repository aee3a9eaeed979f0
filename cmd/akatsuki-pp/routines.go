package main

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"
)

// Run starts f on its own goroutine with panic reporting. Calculations are
// independent per chart, so a whole song library can be processed in
// parallel without coordination beyond the wait group.
func Run(f func()) {
	go func() {
		defer Recover()
		f()
	}()
}

func Recover() {
	if r := recover(); r != nil {
		handlePanic(r)
	}
}

func handlePanic(p any) {
	defer os.Exit(1)

	buf := make([]byte, 100000)
	n := runtime.Stack(buf, false)
	buf = buf[:n]

	fmt.Printf("Panic: %v\n\n%s\n\n", p, string(buf))
}

// Mirror rate limiting: a small fixed request budget per cooldown window and
// a cap on concurrent downloads, so batch runs stay polite.
const (
	rateLimit             = 30
	cooldown              = time.Minute
	maxConcurrentRequests = 2
)

var ticker = time.NewTicker(cooldown / rateLimit)
var attempts []time.Time
var attemptsLock sync.Mutex

var concurrentReqs = make(chan struct{}, maxConcurrentRequests)

func init() {
	for i := 0; i < maxConcurrentRequests; i++ {
		concurrentReqs <- struct{}{}
	}
}

func GetToken() func() {
	<-concurrentReqs
	return func() {
		concurrentReqs <- struct{}{}
	}
}

func Throttle() {
	for range ticker.C {
		attemptsLock.Lock()
		att := attempts
		if len(att) < rateLimit || time.Since(att[0]) > cooldown {
			att = append(att, time.Now())
			if len(att) > rateLimit {
				att = att[1:]
			}
			attempts = att
			attemptsLock.Unlock()
			return
		}
		attemptsLock.Unlock()
	}
}
