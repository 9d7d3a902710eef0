package domain

import "strings"

// Section is one slide's narration unit: a short title plus the body text
// spoken over it. Sections are ordered; the order is presentation order.
type Section struct {
	Title string
	Body  string
}

// FullText returns the combined title+body text used for both narration and
// slide rendering. The first line carries the title so the renderer can pick
// it back out.
func (s Section) FullText() string {
	return strings.TrimSpace(s.Title + "\n" + s.Body)
}

// VideoSegment is one section's muxed audio+image clip inside the run
// workspace, identified by its position in the final video.
type VideoSegment struct {
	Ordinal  int
	FileName string
}

type VideoSegmentsAscByOrdinal []VideoSegment

func (v VideoSegmentsAscByOrdinal) Len() int           { return len(v) }
func (v VideoSegmentsAscByOrdinal) Swap(i, j int)      { v[i], v[j] = v[j], v[i] }
func (v VideoSegmentsAscByOrdinal) Less(i, j int) bool { return v[i].Ordinal < v[j].Ordinal }
