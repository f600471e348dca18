package bot

import (
	"encoding/json"
	"errors"

	"github.com/Qoopi/checkers/movegen"
)

// LambdaEvent is the payload of a serverless move request. If ReplyChannel
// is set the reply is also published there.
type LambdaEvent struct {
	CGP          string         `json:"cgp"`
	GameID       string         `json:"gameID"`
	ReplyChannel string         `json:"replyChannel"`
	Rules        *movegen.Rules `json:"rules,omitempty"`
}

// HandleEvent answers a lambda event the same way the NATS service answers
// a request, returning the raw reply along with its decoded form.
func (bot *Bot) HandleEvent(evt LambdaEvent) ([]byte, *Response, error) {
	if evt.CGP == "" {
		return nil, nil, errors.New("event has no cgp")
	}
	data, err := json.Marshal(Request{CGP: evt.CGP, Rules: evt.Rules})
	if err != nil {
		return nil, nil, err
	}
	reply := bot.Handle(data)
	resp := &Response{}
	if err := json.Unmarshal(reply, resp); err != nil {
		return nil, nil, err
	}
	return reply, resp, nil
}
