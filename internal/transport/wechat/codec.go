package wechat

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"
)

// inboundMessage is the decoded webhook POST body. Only the fields this
// service reads are mapped; the raw body is kept separately for the event
// ledger.
type inboundMessage struct {
	XMLName      xml.Name `xml:"xml"`
	ToUserName   string   `xml:"ToUserName"`
	FromUserName string   `xml:"FromUserName"`
	CreateTime   int64    `xml:"CreateTime"`
	MsgType      string   `xml:"MsgType"`
	Content      string   `xml:"Content"`
	MsgID        string   `xml:"MsgId"`
}

type cdata struct {
	Text string `xml:",cdata"`
}

// textReply is the outbound text message, with To/From swapped relative
// to the inbound message.
type textReply struct {
	XMLName      xml.Name `xml:"xml"`
	ToUserName   cdata    `xml:"ToUserName"`
	FromUserName cdata    `xml:"FromUserName"`
	CreateTime   int64    `xml:"CreateTime"`
	MsgType      cdata    `xml:"MsgType"`
	Content      cdata    `xml:"Content"`
}

func decodeInbound(r io.Reader) (inboundMessage, error) {
	var msg inboundMessage
	if err := xml.NewDecoder(r).Decode(&msg); err != nil {
		return inboundMessage{}, fmt.Errorf("failed to decode inbound xml: %w", err)
	}
	return msg, nil
}

func encodeTextReply(in inboundMessage, content string) ([]byte, error) {
	reply := textReply{
		ToUserName:   cdata{Text: in.FromUserName},
		FromUserName: cdata{Text: in.ToUserName},
		CreateTime:   time.Now().Unix(),
		MsgType:      cdata{Text: "text"},
		Content:      cdata{Text: content},
	}

	out, err := xml.Marshal(reply)
	if err != nil {
		return nil, fmt.Errorf("failed to encode reply xml: %w", err)
	}
	return out, nil
}
