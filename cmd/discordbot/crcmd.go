/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/diwanliwe/crtournamentdashboard/crdash"
)

type CrSubCommand string

const (
	CrAboutCmd      CrSubCommand = "about"
	CrHelpCmd       CrSubCommand = "help"
	CrTournamentCmd CrSubCommand = "tournament"
	CrAnalyzeCmd    CrSubCommand = "analyze"
	CrPlayerCmd     CrSubCommand = "player"
)

var crSubCmdHdlrs = map[CrSubCommand]CmdHandler{
	CrAboutCmd:      crAboutCmdHandler,
	CrHelpCmd:       crHelpCmdHandler,
	CrTournamentCmd: crTournamentCmdHandler,
	CrAnalyzeCmd:    crAnalyzeCmdHandler,
	CrPlayerCmd:     crPlayerCmdHandler,
}

var dashClient *crdash.Client

func init() {
	var err error
	dashClient, err = crdash.NewClient(context.Background(), "")
	if err != nil {
		log.Fatalf("discordbot.init: Failed to initialize dashboard client: %v",
			err)
	}
}

func crCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	data := inter.ApplicationCommandData()
	hdlr := crHelpCmdHandler
	if len(data.Options) > 0 {
		if subName := data.Options[0].Name; subName != "" {
			h, ok := crSubCmdHdlrs[CrSubCommand(subName)]
			if ok {
				hdlr = h
			}
		}
	}
	return hdlr(ctx, inter)
}

//go:embed about.txt
var aboutText string

func crAboutCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}

	resp.Data.Content = truncateContent(aboutText)

	return resp
}

//go:embed help.md
var helpText string

func crHelpCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}

	resp.Data.Content = truncateContent(helpText)
	return resp
}

func crTournamentCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}

	data := inter.ApplicationCommandData()
	tag := ""
	broadcast := false // default
	if len(data.Options) > 0 {
		for _, opt := range data.Options[0].Options {
			if opt.Name == "tag" {
				tag = opt.StringValue()
			} else if opt.Name == "broadcast" {
				broadcast = opt.BoolValue()
			}
		}
	}
	if crdash.NormalizeTag(tag) == "" {
		resp.Data.Content = "Please provide a tournament tag."
		log.Printf("discordbot.tournament: %v", resp.Data.Content)
		return resp
	}

	tourn, err := dashClient.GetTournament(ctx, tag)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error fetching tournament %v: %v",
			crdash.DisplayTag(tag), err)
		log.Printf("discordbot.tournament: %v", resp.Data.Content)
		return resp
	}

	// Wrap output in code block for monospace formatting in Discord
	resp.Data.Content = fmt.Sprintf("```\n%s```",
		truncateContent(crdash.BuildTournamentOutput(tourn)))

	if broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

// crAnalyzeCmdHandler handles the /crdash analyze command. A full
// analysis can run for tens of seconds while Discord expects an
// acknowledgement within three, so the handler defers and fills in the
// response once the backend answers.
func crAnalyzeCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}

	data := inter.ApplicationCommandData()
	tag := ""
	broadcast := false // default
	if len(data.Options) > 0 {
		for _, opt := range data.Options[0].Options {
			if opt.Name == "tag" {
				tag = opt.StringValue()
			} else if opt.Name == "broadcast" {
				broadcast = opt.BoolValue()
			}
		}
	}
	if crdash.NormalizeTag(tag) == "" {
		resp.Type = discordgo.InteractionResponseChannelMessageWithSource
		resp.Data.Content = "Please provide a tournament tag."
		log.Printf("discordbot.analyze: %v", resp.Data.Content)
		return resp
	}
	if broadcast {
		resp.Data.Flags = 0
	}

	// Pin the clients at spawn; the goroutine outlives the request and
	// must not observe later reconfiguration.
	go func(dc *crdash.Client, sess *discordgo.Session) {
		analyzeCtx, cancel := context.WithTimeout(context.Background(),
			2*time.Minute)
		defer cancel()

		result, err := dc.AnalyzeTournament(analyzeCtx, tag)
		var content string
		if err != nil {
			content = fmt.Sprintf("Error analyzing tournament %v: %v",
				crdash.DisplayTag(tag), err)
			log.Printf("discordbot.analyze: %v", content)
		} else {
			content = fmt.Sprintf("```\n%s```",
				truncateContent(crdash.BuildAnalysisOutput(result)))
		}

		_, err = sess.InteractionResponseEdit(inter,
			&discordgo.WebhookEdit{Content: &content})
		if err != nil {
			log.Printf("discordbot.analyze: failed to edit response: %v", err)
		}
	}(dashClient, client)

	return resp
}

func crPlayerCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}

	data := inter.ApplicationCommandData()
	tag := ""
	broadcast := false // default
	if len(data.Options) > 0 {
		for _, opt := range data.Options[0].Options {
			if opt.Name == "tag" {
				tag = opt.StringValue()
			} else if opt.Name == "broadcast" {
				broadcast = opt.BoolValue()
			}
		}
	}
	if crdash.NormalizeTag(tag) == "" {
		resp.Data.Content = "Please provide a player tag."
		log.Printf("discordbot.player: %v", resp.Data.Content)
		return resp
	}

	player, err := dashClient.GetPlayer(ctx, tag)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error fetching player %v: %v",
			crdash.DisplayTag(tag), err)
		log.Printf("discordbot.player: %v", resp.Data.Content)
		return resp
	}

	// Wrap output in code block for monospace formatting in Discord
	resp.Data.Content = fmt.Sprintf("```\n%s```",
		truncateContent(crdash.BuildPlayerOutput(player)))

	if broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

// https://discord.com/developers/docs/resources/channel#start-thread-in-forum-or-media-channel-forum-and-media-thread-message-params-object
// limits messages to 2k characters
func truncateContent(s string) string {
	const MsgLimit = 1988 // keep space for newlines and markdown
	runes := []rune(s)
	if len(runes) > MsgLimit {
		s = fmt.Sprintf("%v...", string(runes[:MsgLimit]))
	}
	return s
}
