// Package wire implements the fixed-size binary client/server protocol
// (spec.md §6.2): two 32-byte messages serialized little-endian. Go struct
// layout isn't guaranteed to match a wire format the way a trivially-copyable
// C++ struct's memory image is, so encoding goes through encoding/binary
// field-by-field rather than an unsafe reinterpret of the Go struct.
package wire

import "encoding/binary"

// MsgType tags both OrderMessage and ResponseMessage.
type MsgType uint8

const (
	MsgNewOrder MsgType = 1
	MsgCancel   MsgType = 2
	MsgAck      MsgType = 10
	MsgFill     MsgType = 11
	MsgReject   MsgType = 12
)

// MessageSize is the fixed wire size of both OrderMessage and
// ResponseMessage.
const MessageSize = 32

// OrderMessage is the client→server request: a new order or a cancel.
type OrderMessage struct {
	MsgType   MsgType
	Side      uint8
	OrderType uint8
	OrderID   uint64 // cancel target for MsgCancel; ignored for MsgNewOrder
	Price     int64
	Quantity  uint32
}

// ResponseMessage is the server→client reply: an ack, a fill, or a reject.
type ResponseMessage struct {
	MsgType  MsgType
	Quantity uint32 // fill quantity, for MsgFill
	OrderID  uint64 // the order this response refers to
	Price    int64  // fill price, for MsgFill
	MatchID  uint64 // counterparty order id, for MsgFill
}

// EncodeOrder writes msg into a freshly allocated MessageSize-byte buffer.
//
// Layout (little-endian), mirroring the original 32-byte C struct exactly:
//
//	offset 0:  msg_type   uint8
//	offset 1:  side       uint8
//	offset 2:  order_type uint8
//	offset 3:  padding[5]
//	offset 8:  order_id   uint64
//	offset 16: price      int64
//	offset 24: quantity   uint32
//	offset 28: reserved   uint32
func EncodeOrder(msg OrderMessage) [MessageSize]byte {
	var buf [MessageSize]byte
	buf[0] = byte(msg.MsgType)
	buf[1] = msg.Side
	buf[2] = msg.OrderType
	binary.LittleEndian.PutUint64(buf[8:16], msg.OrderID)
	binary.LittleEndian.PutUint64(buf[16:24], uint64(msg.Price))
	binary.LittleEndian.PutUint32(buf[24:28], msg.Quantity)
	return buf
}

// DecodeOrder parses a MessageSize-byte buffer into an OrderMessage.
func DecodeOrder(buf []byte) OrderMessage {
	_ = buf[:MessageSize] // bounds-check hint; panics on short input
	return OrderMessage{
		MsgType:   MsgType(buf[0]),
		Side:      buf[1],
		OrderType: buf[2],
		OrderID:   binary.LittleEndian.Uint64(buf[8:16]),
		Price:     int64(binary.LittleEndian.Uint64(buf[16:24])),
		Quantity:  binary.LittleEndian.Uint32(buf[24:28]),
	}
}

// EncodeResponse writes msg into a freshly allocated MessageSize-byte buffer.
//
// Layout (little-endian):
//
//	offset 0:  msg_type uint8
//	offset 1:  padding[3]
//	offset 4:  quantity uint32
//	offset 8:  order_id uint64
//	offset 16: price    int64
//	offset 24: match_id uint64
func EncodeResponse(msg ResponseMessage) [MessageSize]byte {
	var buf [MessageSize]byte
	buf[0] = byte(msg.MsgType)
	binary.LittleEndian.PutUint32(buf[4:8], msg.Quantity)
	binary.LittleEndian.PutUint64(buf[8:16], msg.OrderID)
	binary.LittleEndian.PutUint64(buf[16:24], uint64(msg.Price))
	binary.LittleEndian.PutUint64(buf[24:32], msg.MatchID)
	return buf
}

// DecodeResponse parses a MessageSize-byte buffer into a ResponseMessage.
func DecodeResponse(buf []byte) ResponseMessage {
	_ = buf[:MessageSize]
	return ResponseMessage{
		MsgType:  MsgType(buf[0]),
		Quantity: binary.LittleEndian.Uint32(buf[4:8]),
		OrderID:  binary.LittleEndian.Uint64(buf[8:16]),
		Price:    int64(binary.LittleEndian.Uint64(buf[16:24])),
		MatchID:  binary.LittleEndian.Uint64(buf[24:32]),
	}
}
