/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"flag"
	"fmt"

	"platform-ledger-go/internal/common"
	"platform-ledger-go/internal/config"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	platformFlag := flag.String("platform", "", "Platform (required)")
	fromFlag := flag.String("from", "", "Acting account email (required)")
	toFlag := flag.String("to", "", "Counterparty email")
	messageFlag := flag.String("message", "", "Message to send; empty prints history instead")
	markReadFlag := flag.Bool("mark-read", false, "Mark unread messages as read (narrowed to -to when set)")
	flag.Parse()

	if *platformFlag == "" || *fromFlag == "" {
		logger.Fatal("Missing required flags: -platform and -from")
	}

	cfg := config.Load()
	services, err := common.InitializeServices(ctx, &cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	identity, err := services.DbService.GetIdentityByEmail(ctx, *fromFlag)
	if err != nil {
		logger.Fatal("Unknown email", zap.String("email", *fromFlag), zap.Error(err))
	}

	switch {
	case *messageFlag != "":
		if *toFlag == "" {
			logger.Fatal("Missing required flag: -to")
		}
		msg, err := services.Chat.SendMessage(ctx, *platformFlag, identity.Id, *toFlag, *messageFlag)
		if err != nil {
			logger.Fatal("Failed to send message", zap.Error(err))
		}
		fmt.Printf("Sent message %s to %s\n", msg.Id, *toFlag)

	case *markReadFlag:
		updated, err := services.Chat.MarkRead(ctx, *platformFlag, identity.Id, *toFlag)
		if err != nil {
			logger.Fatal("Failed to mark messages read", zap.Error(err))
		}
		fmt.Printf("Marked %d messages read\n", updated)

	default:
		messages, err := services.Chat.History(ctx, *platformFlag, identity.Id)
		if err != nil {
			logger.Fatal("Failed to load chat history", zap.Error(err))
		}
		unread, err := services.Chat.UnreadCount(ctx, *platformFlag, identity.Id)
		if err != nil {
			logger.Fatal("Failed to count unread messages", zap.Error(err))
		}

		common.PrintHeader("CHAT HISTORY", common.DefaultWidth)
		for _, msg := range messages {
			direction := "->"
			if msg.ReceiverId == identity.Id {
				direction = "<-"
			}
			read := " "
			if !msg.IsRead && msg.ReceiverId == identity.Id {
				read = "*"
			}
			fmt.Printf("%s %s%s %s\n",
				msg.CreatedAt.Format("2006-01-02 15:04:05"), direction, read, msg.Message)
		}
		common.PrintFooter(fmt.Sprintf("%d messages, %d unread", len(messages), unread), common.DefaultWidth)
	}
}
