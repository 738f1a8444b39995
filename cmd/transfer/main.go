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

	platformFlag := flag.String("platform", "", "Platform to transfer on (required)")
	fromFlag := flag.String("from", "", "Sender email (required)")
	toFlag := flag.String("to", "", "Recipient handle: email, or mobile on mobile-identity platforms (required)")
	amountFlag := flag.String("amount", "", "Amount to transfer (required)")
	symbolFlag := flag.String("symbol", "", "Crypto symbol; empty for a fiat transfer")
	reasonFlag := flag.String("reason", "", "Optional note attached to both transaction rows")
	requestFlag := flag.Bool("request", false, "Request money from the counterparty instead of sending")
	flag.Parse()

	if *platformFlag == "" || *fromFlag == "" || *toFlag == "" || *amountFlag == "" {
		logger.Fatal("Missing required flags: -platform, -from, -to, -amount")
	}

	cfg := config.Load()
	services, err := common.InitializeServices(ctx, &cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	sender, err := services.DbService.GetIdentityByEmail(ctx, *fromFlag)
	if err != nil {
		logger.Fatal("Unknown sender", zap.String("email", *fromFlag), zap.Error(err))
	}

	switch {
	case *requestFlag:
		err = services.Engine.RequestMoney(ctx, *platformFlag, sender.Id, *toFlag, *amountFlag, *reasonFlag)
	case *symbolFlag != "":
		err = services.Engine.TransferCrypto(ctx, *platformFlag, sender.Id, *toFlag, *symbolFlag, *amountFlag, *reasonFlag)
	default:
		err = services.Engine.Transfer(ctx, *platformFlag, sender.Id, *toFlag, *amountFlag, *reasonFlag)
	}
	if err != nil {
		logger.Fatal("Transfer failed",
			zap.String("platform", *platformFlag),
			zap.String("from", *fromFlag),
			zap.String("to", *toFlag),
			zap.String("amount", *amountFlag),
			zap.Error(err))
	}

	action := "Transferred"
	if *requestFlag {
		action = "Requested"
	}
	currency := *symbolFlag
	if currency == "" {
		currency = "fiat"
	}
	fmt.Printf("%s %s %s: %s -> %s\n", action, *amountFlag, currency, *fromFlag, *toFlag)
}
