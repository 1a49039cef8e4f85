package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// stdLayout is the timestamp written by the standard logger with log.LstdFlags.
const stdLayout = "2006/01/02 15:04:05"

// Entry is one parsed log line.
type Entry struct {
	Time    time.Time
	Message string
}

// Read returns at most maxLines from the end of the file at path. A missing
// file is not an error.
func Read(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	// Keep the newest maxLines in a ring; next is the oldest slot once full.
	ring := make([]string, 0, maxLines)
	next := 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if len(ring) < maxLines {
			ring = append(ring, scanner.Text())
			continue
		}
		ring[next] = scanner.Text()
		next = (next + 1) % maxLines
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return append(ring[next:], ring[:next]...), nil
}

// Parse splits a line written by a logger with the given prefix and standard
// flags. Lines that do not match keep their full text and a zero Time.
func Parse(line, prefix string) Entry {
	rest := strings.TrimPrefix(line, prefix)
	rest = strings.TrimLeft(rest, " ")
	if len(rest) >= len(stdLayout) {
		if t, err := time.ParseInLocation(stdLayout, rest[:len(stdLayout)], time.Local); err == nil {
			return Entry{Time: t, Message: strings.TrimSpace(rest[len(stdLayout):])}
		}
	}
	return Entry{Message: strings.TrimSpace(line)}
}

// Problems returns the newest entries, oldest first, whose message reports a
// failure. At most limit entries are returned.
func Problems(lines []string, prefix string, limit int) []Entry {
	var out []Entry
	for i := len(lines) - 1; i >= 0 && len(out) < limit; i-- {
		e := Parse(lines[i], prefix)
		lower := strings.ToLower(e.Message)
		if strings.Contains(lower, "failed") || strings.Contains(lower, "error") {
			out = append(out, e)
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
