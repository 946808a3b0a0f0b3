package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Telegram rejects callback data longer than this.
const maxCallbackData = 64

// CallbackKind names a callback variant.
type CallbackKind string

const (
	KindMarriageResponse  CallbackKind = "m"
	KindResetConfirmation CallbackKind = "r"
)

// ErrMalformedCallback is returned for callback data this bot did not produce.
var ErrMalformedCallback = errors.New("malformed callback data")

// Callback is a decoded inline keyboard press. The variants are
// MarriageResponse and ResetConfirmation.
type Callback interface {
	Kind() CallbackKind
	fields() (flag bool, ids []int64)
}

// MarriageResponse is the target's answer to a proposal.
type MarriageResponse struct {
	Accept     bool
	ProposerID int64
	TargetID   int64
	ChatID     int64
}

func (MarriageResponse) Kind() CallbackKind { return KindMarriageResponse }

func (c MarriageResponse) fields() (bool, []int64) {
	return c.Accept, []int64{c.ProposerID, c.TargetID, c.ChatID}
}

// ResetConfirmation is the answer to a /reset prompt.
type ResetConfirmation struct {
	Confirm bool
	UserID  int64
	ChatID  int64
}

func (ResetConfirmation) Kind() CallbackKind { return KindResetConfirmation }

func (c ResetConfirmation) fields() (bool, []int64) {
	return c.Confirm, []int64{c.UserID, c.ChatID}
}

// EncodeCallback packs cb as "<kind>:<y|n>:<id>:..." with base36 ids.
func EncodeCallback(cb Callback) (string, error) {
	flag, ids := cb.fields()

	parts := make([]string, 0, len(ids)+2)
	parts = append(parts, string(cb.Kind()), "n")
	if flag {
		parts[1] = "y"
	}
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 36))
	}

	data := strings.Join(parts, ":")
	if len(data) > maxCallbackData {
		return "", fmt.Errorf("callback data is %d bytes, limit is %d", len(data), maxCallbackData)
	}
	return data, nil
}

// DecodeCallback parses data produced by EncodeCallback.
func DecodeCallback(data string) (Callback, error) {
	parts := strings.Split(data, ":")
	if len(parts) < 2 {
		return nil, ErrMalformedCallback
	}

	var flag bool
	switch parts[1] {
	case "y":
		flag = true
	case "n":
	default:
		return nil, ErrMalformedCallback
	}

	ids := make([]int64, 0, len(parts)-2)
	for _, raw := range parts[2:] {
		id, err := strconv.ParseInt(raw, 36, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedCallback, err)
		}
		ids = append(ids, id)
	}

	switch CallbackKind(parts[0]) {
	case KindMarriageResponse:
		if len(ids) != 3 {
			return nil, ErrMalformedCallback
		}
		return MarriageResponse{Accept: flag, ProposerID: ids[0], TargetID: ids[1], ChatID: ids[2]}, nil
	case KindResetConfirmation:
		if len(ids) != 2 {
			return nil, ErrMalformedCallback
		}
		return ResetConfirmation{Confirm: flag, UserID: ids[0], ChatID: ids[1]}, nil
	default:
		return nil, ErrMalformedCallback
	}
}
