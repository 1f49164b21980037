package utils

import (
	"math/rand"
	"strconv"
	"sync"
	"time"
)

const messageSuffixLength = 8
const letterBytes = "abcdefghijklmnopqrstuvwxyz0123456789"

var (
	seededRand = rand.New(rand.NewSource(time.Now().UnixNano()))
	randMu     sync.Mutex
)

// GenerateMessageID returns "<unixmillis>-<random>", the id format chat clients also use.
func GenerateMessageID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + RandomString(messageSuffixLength)
}

func RandomString(n int) string {
	randMu.Lock()
	defer randMu.Unlock()

	b := make([]byte, n)
	for i := range b {
		b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
	}
	return string(b)
}
