package main

import (
	"context"
	"testing"

	"github.com/matryer/is"

	"github.com/Qoopi/checkers/bot"
	"github.com/Qoopi/checkers/config"
)

func TestHandleRequest(t *testing.T) {
	is := is.New(t)
	cfg = config.DefaultConfig()
	cfg.Set(config.ConfigCacheMaxEntries, 16)
	b = bot.NewBot(cfg)
	ctx := context.Background()

	evt := bot.LambdaEvent{
		CGP:    "1f1f1f1f/f1f1f1f1/1f1f1f1f/8/8/n1n1n1n1/1n1n1n1n/n1n1n1n1 near par odd;",
		GameID: "foo",
	}
	ret, err := HandleRequest(ctx, evt)
	is.NoErr(err)
	is.Equal(ret, "50-41")

	evt.ReplyChannel = "reply"
	_, err = HandleRequest(ctx, evt)
	is.True(err != nil)

	_, err = HandleRequest(ctx, bot.LambdaEvent{CGP: "8/8 near"})
	is.True(err != nil)
}
