package layout

import "github.com/kamusis/vibe-cli/internal/vibe"

// Stats summarises how well a layout honours the graph.
type Stats struct {
	MeanConnected    float64
	MeanUnconnected  float64
	ConnectedPairs   int
	UnconnectedPairs int
	// WorstEdge is the connected pair stretched furthest beyond the mean
	// connected distance, the symptom that used to need hand-retuning.
	WorstEdge      [2]vibe.ID
	WorstEdgeRatio float64
}

// Measure computes Stats for positions over g.
func Measure(g *vibe.Graph, pos vibe.Positions) Stats {
	anchors := g.Anchors()
	var s Stats
	var sumC, sumU float64
	for i := range anchors {
		for j := i + 1; j < len(anchors); j++ {
			a, b := anchors[i].ID, anchors[j].ID
			d := pos[a].Dist(pos[b])
			if g.Connected(a, b) {
				sumC += d
				s.ConnectedPairs++
			} else {
				sumU += d
				s.UnconnectedPairs++
			}
		}
	}
	if s.ConnectedPairs > 0 {
		s.MeanConnected = sumC / float64(s.ConnectedPairs)
	}
	if s.UnconnectedPairs > 0 {
		s.MeanUnconnected = sumU / float64(s.UnconnectedPairs)
	}
	if s.MeanConnected > 0 {
		for _, e := range g.Edges() {
			r := pos[e.From].Dist(pos[e.To]) / s.MeanConnected
			if r > s.WorstEdgeRatio {
				s.WorstEdgeRatio = r
				s.WorstEdge = [2]vibe.ID{e.From, e.To}
			}
		}
	}
	return s
}
