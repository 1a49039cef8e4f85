package draft

import "regexp"

var youtubePattern = regexp.MustCompile(`^.*(youtu\.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*).*`)

// YouTubeID extracts the 11 character video id from a YouTube link, or
// returns "" when url is not one.
func YouTubeID(url string) string {
	m := youtubePattern.FindStringSubmatch(url)
	if len(m) < 3 || len(m[2]) != 11 {
		return ""
	}
	return m[2]
}
