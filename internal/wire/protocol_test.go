package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderMessageRoundTrip(t *testing.T) {
	in := OrderMessage{
		MsgType:   MsgNewOrder,
		Side:      0,
		OrderType: 0,
		OrderID:   123,
		Price:     10050,
		Quantity:  7,
	}
	buf := EncodeOrder(in)
	assert.Len(t, buf, MessageSize)

	out := DecodeOrder(buf[:])
	assert.Equal(t, in, out)
}

func TestOrderMessageNegativePriceRoundTrip(t *testing.T) {
	in := OrderMessage{MsgType: MsgCancel, OrderID: 99, Price: -500}
	buf := EncodeOrder(in)
	out := DecodeOrder(buf[:])
	assert.Equal(t, int64(-500), out.Price)
}

func TestResponseMessageRoundTrip(t *testing.T) {
	in := ResponseMessage{
		MsgType:  MsgFill,
		Quantity: 3,
		OrderID:  5,
		Price:    10000,
		MatchID:  6,
	}
	respBuf := EncodeResponse(in)
	out := DecodeResponse(respBuf[:])
	assert.Equal(t, in, out)
}

func TestOrderMessageFieldOffsets(t *testing.T) {
	buf := EncodeOrder(OrderMessage{MsgType: MsgNewOrder, Side: 1, OrderType: 1, OrderID: 0x0102030405060708, Price: 1, Quantity: 1})
	assert.Equal(t, byte(MsgNewOrder), buf[0])
	assert.Equal(t, byte(1), buf[1])
	assert.Equal(t, byte(1), buf[2])
	assert.Equal(t, byte(0x08), buf[8], "order_id must start at byte offset 8")
}
