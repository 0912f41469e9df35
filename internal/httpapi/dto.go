package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/cognicore/vinograph/internal/logger"
	"github.com/cognicore/vinograph/pkg/vinograph/cards"
	"github.com/cognicore/vinograph/pkg/vinograph/catalog"
	"github.com/cognicore/vinograph/pkg/vinograph/curve"
	"github.com/cognicore/vinograph/pkg/vinograph/similarity"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type wineResponse struct {
	catalog.Wine
	ReviewFiles *int  `json:"review_files,omitempty"`
	Eligible    *bool `json:"eligible,omitempty"`
}

func (s *Server) wineToResponse(r *http.Request, w catalog.Wine) wineResponse {
	out := wineResponse{Wine: w}
	if s.reviews == nil {
		return out
	}
	n, err := s.reviews.Count(w.ID)
	if err != nil {
		logger.FromContext(r.Context()).Warn("counting reviews failed", zap.String("wine_id", w.ID.String()), zap.Error(err))
		return out
	}
	ok := catalog.Eligible(n)
	out.ReviewFiles = &n
	out.Eligible = &ok
	return out
}

type labelResponse struct {
	Text      string  `json:"text"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	FontSize  int     `json:"font_size"`
	Angle     float64 `json:"angle"`
	TextColor string  `json:"text_color"`
}

type blurResponse struct {
	Alpha float64   `json:"alpha"`
	Lower []float64 `json:"lower"`
	Upper []float64 `json:"upper"`
}

type bandResponse struct {
	Key      string         `json:"key"`
	Category string         `json:"category"`
	Color    string         `json:"color"`
	Lower    []float64      `json:"lower"`
	Upper    []float64      `json:"upper"`
	Blur     []blurResponse `json:"blur,omitempty"`
	Label    *labelResponse `json:"label,omitempty"`
}

type curvesResponse struct {
	WineID   catalog.WineID `json:"wine_id"`
	Fidelity string         `json:"fidelity"`
	X        []float64      `json:"x"`
	Bands    []bandResponse `json:"bands"`
}

func curvesToResponse(id catalog.WineID, set curve.Set) curvesResponse {
	out := curvesResponse{
		WineID:   id,
		Fidelity: set.Fidelity.String(),
		X:        set.X,
		Bands:    make([]bandResponse, 0, len(set.Bands)),
	}
	for _, b := range set.Bands {
		br := bandResponse{
			Key:      b.Key,
			Category: b.Category,
			Color:    b.Color.Hex(),
			Lower:    b.Lower,
			Upper:    b.Upper,
		}
		for _, l := range b.Blur {
			lo, up := l.Bounds(b)
			br.Blur = append(br.Blur, blurResponse{Alpha: l.Alpha, Lower: lo, Upper: up})
		}
		if b.Label.Visible {
			br.Label = &labelResponse{
				Text:      b.Label.Text,
				X:         b.Label.X,
				Y:         b.Label.Y,
				FontSize:  b.Label.FontSize,
				Angle:     b.Label.Angle,
				TextColor: b.Label.TextColor.Hex(),
			}
		}
		out.Bands = append(out.Bands, br)
	}
	return out
}

type statsResponse struct {
	Pool        int `json:"pool"`
	Self        int `json:"self"`
	Gated       int `json:"gated"`
	NoProfile   int `json:"no_profile"`
	Failed      int `json:"failed"`
	BelowCutoff int `json:"below_cutoff"`
	Matched     int `json:"matched"`
}

type cardResponse struct {
	ID             string             `json:"id"`
	WineID         string             `json:"wine_id"`
	Title          string             `json:"title"`
	Bullets        []string           `json:"bullets"`
	ScoreBreakdown map[string]float64 `json:"score_breakdown"`
	SharedKeys     []string           `json:"shared_keys,omitempty"`
	AlienKeys      []string           `json:"alien_keys,omitempty"`
}

type similarResponse struct {
	Target catalog.WineID `json:"target"`
	Stats  statsResponse  `json:"stats"`
	Cards  []cardResponse `json:"cards"`
}

func statsToResponse(s similarity.Stats) statsResponse {
	return statsResponse{
		Pool:        s.Pool,
		Self:        s.Self,
		Gated:       s.Gated,
		NoProfile:   s.NoProfile,
		Failed:      s.Failed,
		BelowCutoff: s.BelowCutoff,
		Matched:     s.Matched,
	}
}

func cardsToResponse(cs []cards.Card) []cardResponse {
	out := make([]cardResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, cardResponse{
			ID:             c.ID,
			WineID:         c.WineID,
			Title:          c.Title,
			Bullets:        c.Bullets,
			ScoreBreakdown: c.ScoreBreakdown,
			SharedKeys:     c.Explain.SharedKeys,
			AlienKeys:      c.Explain.AlienKeys,
		})
	}
	return out
}
