package media

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// timeRe matches the clock form ffmpeg uses in progress and log lines,
// e.g. "out_time=00:01:23.450000" or "time=00:01:23.45".
var timeRe = regexp.MustCompile(`time=(\d+):(\d+):(\d+\.?\d*)`)

// readProgress consumes the key=value lines ffmpeg writes to the
// -progress pipe and turns them into callback invocations. It returns when
// the pipe is closed or a "progress=end" record is seen.
//
// Updates are throttled to whole-percent steps so callers are not flooded.
// When total is unknown (<= 0), a -1 percent liveness update is emitted
// once per progress record instead.
func readProgress(r io.Reader, total float64, fn ProgressFunc) {
	scanner := bufio.NewScanner(r)
	lastPercent := -1.0

	for scanner.Scan() {
		line := scanner.Text()

		if cur, ok := parseProgressTime(line); ok && fn != nil {
			if total > 0 {
				percent := cur / total * 100
				if percent > 100 {
					percent = 100
				}
				if percent-lastPercent >= 1.0 {
					fn(percent, fmt.Sprintf("converting... %.1f%%", percent))
					lastPercent = percent
				}
			}
			continue
		}

		if strings.HasPrefix(line, "progress=") {
			if strings.HasSuffix(line, "end") {
				return
			}
			if total <= 0 && fn != nil {
				fn(-1, "converting...")
			}
		}
	}
}

// parseProgressTime extracts the current output timestamp in seconds from a
// single progress line. It understands the microsecond counters
// (out_time_us / out_time_ms) and falls back to the HH:MM:SS clock form.
func parseProgressTime(line string) (float64, bool) {
	for _, prefix := range []string{"out_time_us=", "out_time_ms="} {
		if v, ok := strings.CutPrefix(line, prefix); ok {
			// Both counters are microseconds; out_time_ms is a historical
			// misnomer in ffmpeg.
			us, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil || us < 0 {
				return 0, false
			}
			return float64(us) / 1e6, true
		}
	}

	m := timeRe.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	hours, _ := strconv.ParseFloat(m[1], 64)
	minutes, _ := strconv.ParseFloat(m[2], 64)
	seconds, _ := strconv.ParseFloat(m[3], 64)
	return hours*3600 + minutes*60 + seconds, true
}
