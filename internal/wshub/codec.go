package wshub

import (
	"fmt"
	"math"
	"slices"

	"google.golang.org/protobuf/encoding/protowire"

	"whackarcade/internal/gamedata"
	"whackarcade/internal/targets"
)

// Binary frames use protobuf wire format without generated code.
//
//	ServerMessage: 1 type, 2 state, 3 sound, 4 volume (double), 5 reward (repeated)
//	Snapshot:      1 score (sint), 2 timeLeft, 3 targets (repeated), 4 endGame
//	Target:        1 slot, 2 id, 3 sprite, 4 hitSprite, 5 score (sint), 6 friendly, 7 bonkSound
//	ClientMessage: 1 action, 2 slot (sint)

func MarshalServerMessage(msg ServerMessage) []byte {
	var b []byte
	b = appendString(b, 1, msg.Type)
	if msg.State != nil {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalSnapshot(*msg.State))
	}
	b = appendString(b, 3, msg.Sound)
	if msg.Volume != 0 {
		b = protowire.AppendTag(b, 4, protowire.Fixed64Type)
		b = protowire.AppendFixed64(b, math.Float64bits(msg.Volume))
	}
	for _, id := range msg.Reward {
		b = protowire.AppendTag(b, 5, protowire.BytesType)
		b = protowire.AppendString(b, id)
	}
	return b
}

func marshalSnapshot(s gamedata.Snapshot) []byte {
	var b []byte
	b = appendSint(b, 1, s.Score)
	b = appendUint(b, 2, uint64(max(s.TimeLeft, 0)))

	slots := make([]int, 0, len(s.ActiveTargets))
	for slot := range s.ActiveTargets {
		slots = append(slots, slot)
	}
	slices.Sort(slots)
	for _, slot := range slots {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalTarget(slot, s.ActiveTargets[slot]))
	}

	if s.EndGame {
		b = appendUint(b, 4, protowire.EncodeBool(true))
	}
	return b
}

func marshalTarget(slot int, d targets.Definition) []byte {
	var b []byte
	b = appendUint(b, 1, uint64(slot))
	b = appendString(b, 2, d.ID)
	b = appendString(b, 3, d.Sprite)
	b = appendString(b, 4, d.HitSprite)
	b = appendSint(b, 5, d.Score)
	if d.Friendly {
		b = appendUint(b, 6, protowire.EncodeBool(true))
	}
	b = appendString(b, 7, d.BonkSound)
	return b
}

func MarshalClientMessage(msg ClientMessage) []byte {
	var b []byte
	b = appendString(b, 1, msg.Action)
	if msg.Slot != nil {
		b = protowire.AppendTag(b, 2, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(*msg.Slot)))
	}
	return b
}

func UnmarshalServerMessage(b []byte) (ServerMessage, error) {
	var msg ServerMessage
	var bad error
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, v []byte, x uint64) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			msg.Type = string(v)
		case num == 2 && typ == protowire.BytesType:
			s, err := unmarshalSnapshot(v)
			if err != nil {
				bad = err
				return
			}
			msg.State = &s
		case num == 3 && typ == protowire.BytesType:
			msg.Sound = string(v)
		case num == 4 && typ == protowire.Fixed64Type:
			msg.Volume = math.Float64frombits(x)
		case num == 5 && typ == protowire.BytesType:
			msg.Reward = append(msg.Reward, string(v))
		}
	})
	if err == nil {
		err = bad
	}
	if err != nil {
		return ServerMessage{}, fmt.Errorf("decoding server message: %w", err)
	}
	return msg, nil
}

func unmarshalSnapshot(b []byte) (gamedata.Snapshot, error) {
	s := gamedata.Snapshot{ActiveTargets: make(map[int]targets.Definition)}
	var bad error
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, v []byte, x uint64) {
		switch {
		case num == 1 && typ == protowire.VarintType:
			s.Score = int(protowire.DecodeZigZag(x))
		case num == 2 && typ == protowire.VarintType:
			s.TimeLeft = int(x)
		case num == 3 && typ == protowire.BytesType:
			slot, d, err := unmarshalTarget(v)
			if err != nil {
				bad = err
				return
			}
			s.ActiveTargets[slot] = d
		case num == 4 && typ == protowire.VarintType:
			s.EndGame = protowire.DecodeBool(x)
		}
	})
	if err == nil {
		err = bad
	}
	return s, err
}

func unmarshalTarget(b []byte) (int, targets.Definition, error) {
	var slot int
	var d targets.Definition
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, v []byte, x uint64) {
		switch {
		case num == 1 && typ == protowire.VarintType:
			slot = int(x)
		case num == 2 && typ == protowire.BytesType:
			d.ID = string(v)
		case num == 3 && typ == protowire.BytesType:
			d.Sprite = string(v)
		case num == 4 && typ == protowire.BytesType:
			d.HitSprite = string(v)
		case num == 5 && typ == protowire.VarintType:
			d.Score = int(protowire.DecodeZigZag(x))
		case num == 6 && typ == protowire.VarintType:
			d.Friendly = protowire.DecodeBool(x)
		case num == 7 && typ == protowire.BytesType:
			d.BonkSound = string(v)
		}
	})
	return slot, d, err
}

func UnmarshalClientMessage(b []byte) (ClientMessage, error) {
	var msg ClientMessage
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, v []byte, x uint64) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			msg.Action = string(v)
		case num == 2 && typ == protowire.VarintType:
			slot := int(protowire.DecodeZigZag(x))
			msg.Slot = &slot
		}
	})
	if err != nil {
		return ClientMessage{}, fmt.Errorf("decoding client message: %w", err)
	}
	return msg, nil
}

// consumeFields walks a message, handing each field to fn. Length-delimited
// values arrive in v, varint and fixed values in x. Unknown fields are skipped.
func consumeFields(b []byte, fn func(num protowire.Number, typ protowire.Type, v []byte, x uint64)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		switch typ {
		case protowire.VarintType:
			x, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			fn(num, typ, nil, x)
			b = b[n:]
		case protowire.Fixed64Type:
			x, n := protowire.ConsumeFixed64(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			fn(num, typ, nil, x)
			b = b[n:]
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			fn(num, typ, v, 0)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return nil
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendUint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendSint(b []byte, num protowire.Number, v int) []byte {
	return appendUint(b, num, protowire.EncodeZigZag(int64(v)))
}
