package tracker

import (
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

// ErrMalformedEnvelope is returned when the outer envelope or its embedded
// stage array cannot be parsed at all. This is the only fatal decode
// condition; every per-field problem inside a parsed stage is defaulted by
// the stage normalizer instead.
var ErrMalformedEnvelope = errors.New("malformed tracker envelope")

// Envelope is the outer container object stored by the in-game tracker,
// holding match metadata and the embedded stage timeline.
type Envelope struct {
	MatchID      string `json:"matchId"`
	Server       string `json:"server"`
	SummonerName string `json:"summonerName"`
	TrackerID    string `json:"trackerId"`
	Portal       string `json:"portal,omitempty"`
	RankLabel    string `json:"rankLabel,omitempty"`
	SetName      string `json:"setName,omitempty"`

	// Stages holds the decoded stage records in timeline order. Records stay
	// loosely typed here; normalization happens per record downstream.
	Stages []gjson.Result `json:"-"`
}

// rawEnvelope mirrors Envelope but defers stageData decoding, since the
// tracker has shipped it both as a JSON-encoded string and as a plain array
// across game patches.
type rawEnvelope struct {
	MatchID      string          `json:"matchId"`
	Server       string          `json:"server"`
	SummonerName string          `json:"summonerName"`
	TrackerID    string          `json:"trackerId"`
	Portal       string          `json:"portal"`
	RankLabel    string          `json:"rankLabel"`
	SetName      string          `json:"setName"`
	StageData    json.RawMessage `json:"stageData"`
}

// Decode parses a raw snapshot blob into an Envelope. The blob may or may
// not be gzip-compressed depending on how the storage side wrote it, so a
// failed decompression pass is not an error; the bytes are then treated as
// plain UTF-8 JSON.
func Decode(raw []byte) (*Envelope, error) {
	text := decompress(raw)

	var re rawEnvelope
	if err := json.Unmarshal(text, &re); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}

	stages, err := decodeStageData(re.StageData)
	if err != nil {
		return nil, err
	}

	return &Envelope{
		MatchID:      re.MatchID,
		Server:       re.Server,
		SummonerName: re.SummonerName,
		TrackerID:    re.TrackerID,
		Portal:       re.Portal,
		RankLabel:    re.RankLabel,
		SetName:      re.SetName,
		Stages:       stages,
	}, nil
}

// decompress attempts a gzip pass and falls back to the original bytes when
// the blob was stored uncompressed.
func decompress(raw []byte) []byte {
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return raw
	}
	defer zr.Close()

	text, err := io.ReadAll(zr)
	if err != nil {
		return raw
	}
	return text
}

// decodeStageData accepts stageData either as a JSON-encoded string or as a
// pre-decoded array. Both forms must yield the same stage sequence.
func decodeStageData(data json.RawMessage) ([]gjson.Result, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: missing stageData", ErrMalformedEnvelope)
	}

	arrText := trimmed
	if trimmed[0] == '"' {
		var embedded string
		if err := json.Unmarshal(trimmed, &embedded); err != nil {
			return nil, fmt.Errorf("%w: stageData string: %v", ErrMalformedEnvelope, err)
		}
		arrText = bytes.TrimSpace([]byte(embedded))
	}

	// Validate array shape strictly before handing records downstream.
	// json.Unmarshal alone would accept null here.
	if len(arrText) == 0 || arrText[0] != '[' {
		return nil, fmt.Errorf("%w: stageData is not an array", ErrMalformedEnvelope)
	}
	var probe []json.RawMessage
	if err := json.Unmarshal(arrText, &probe); err != nil {
		return nil, fmt.Errorf("%w: stageData is not an array: %v", ErrMalformedEnvelope, err)
	}

	return gjson.ParseBytes(arrText).Array(), nil
}
