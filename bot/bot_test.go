package bot

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/Qoopi/checkers/board"
	"github.com/Qoopi/checkers/config"
	"github.com/Qoopi/checkers/movegen"
)

const (
	standardCGP = "1f1f1f1f/f1f1f1f1/1f1f1f1f/8/8/n1n1n1n1/1n1n1n1n/n1n1n1n1 near par odd;"
	// The Near man can only capture by jumping backward over (5,4).
	backwardCGP = "8/8/8/8/3n4/4f3/8/8 near par odd;"
	blockedCGP  = "1f6/n7/8/8/8/8/8/8 near par odd;"
)

func newTestBot() *Bot {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigCacheMaxEntries, 16)
	return NewBot(cfg)
}

func request(t *testing.T, b *Bot, req string) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(b.Handle([]byte(req)), &resp); err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestOpeningMove(t *testing.T) {
	is := is.New(t)
	b := newTestBot()
	resp := request(t, b, `{"cgp":"`+standardCGP+`"}`)
	is.Equal(resp.Error, "")
	is.Equal(resp.LegalMoves, 7)
	is.True(resp.Move != nil)
	is.Equal(resp.Move.String(), "50-41")
}

func TestRepliesAreCached(t *testing.T) {
	is := is.New(t)
	b := newTestBot()
	req := []byte(`{"cgp":"` + standardCGP + `"}`)
	first := b.Handle(req)
	second := b.Handle(req)
	is.Equal(string(first), string(second))
	lookups, hits := b.replies.Stats()
	is.Equal(lookups, uint64(2))
	is.Equal(hits, uint64(1))
	is.Equal(b.replies.Len(), 1)
}

func TestBadRequests(t *testing.T) {
	is := is.New(t)
	b := newTestBot()
	for _, req := range []string{
		`not json`,
		`{"cgp":"1f1f1f1f/8 near"}`,
		`{"cgp":"8/8/8/8/8/8/8/8 sideways"}`,
	} {
		resp := request(t, b, req)
		is.True(resp.Error != "")
		is.True(resp.Move == nil)
	}
	is.Equal(b.replies.Len(), 0)
}

func TestRulesPrecedence(t *testing.T) {
	is := is.New(t)
	b := newTestBot()
	cases := []struct {
		req      string
		expMoves int
	}{
		{`{"cgp":"` + backwardCGP + `"}`, 1},
		{`{"cgp":"` + backwardCGP + `","rules":{"menCaptureBackward":false}}`, 2},
		{`{"cgp":"` + backwardCGP + `mcb false;"}`, 2},
		{`{"cgp":"` + backwardCGP + `mcb false;","rules":{"menCaptureBackward":true}}`, 1},
	}
	for _, tc := range cases {
		resp := request(t, b, tc.req)
		is.Equal(resp.Error, "")
		is.Equal(resp.LegalMoves, tc.expMoves)
	}
	resp := request(t, b, cases[0].req)
	is.Equal(resp.Move.String(), "43x65")
}

func TestNoMove(t *testing.T) {
	is := is.New(t)
	b := newTestBot()
	reply := b.Handle([]byte(`{"cgp":"` + blockedCGP + `"}`))
	is.True(strings.Contains(string(reply), `"move":null`))
	m, err := ParseResponse(reply)
	is.NoErr(err)
	is.True(m == nil)
}

func TestMakeRequestAndParse(t *testing.T) {
	is := is.New(t)
	rules := movegen.Rules{MenCaptureBackward: false}
	data, err := MakeRequest(board.StandardBoard(board.OddParity), board.Near, &rules)
	is.NoErr(err)
	is.Equal(string(data), `{"cgp":"`+standardCGP+`","rules":{"menCaptureBackward":false}}`)

	b := newTestBot()
	m, err := ParseResponse(b.Handle(data))
	is.NoErr(err)
	is.Equal(m.String(), "50-41")

	_, err = ParseResponse([]byte(`{"move":null,"legalMoves":0,"error":"boom"}`))
	is.Equal(err.Error(), "bot returned: boom")
}

func TestHandleEvent(t *testing.T) {
	is := is.New(t)
	b := newTestBot()
	_, resp, err := b.HandleEvent(LambdaEvent{CGP: backwardCGP, GameID: "g"})
	is.NoErr(err)
	is.Equal(resp.Move.String(), "43x65")

	_, _, err = b.HandleEvent(LambdaEvent{})
	is.True(err != nil)
}
