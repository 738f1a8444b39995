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

	platformFlag := flag.String("platform", "", "Platform to query (required)")
	emailFlag := flag.String("email", "", "Account email (required)")
	historyFlag := flag.Bool("history", false, "Also print the transaction history")
	flag.Parse()

	if *platformFlag == "" || *emailFlag == "" {
		logger.Fatal("Missing required flags: -platform and -email")
	}

	cfg := config.Load()
	services, err := common.InitializeServices(ctx, &cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	identity, err := services.DbService.GetIdentityByEmail(ctx, *emailFlag)
	if err != nil {
		logger.Fatal("Unknown email", zap.String("email", *emailFlag), zap.Error(err))
	}

	view, err := services.Engine.Balances(ctx, *platformFlag, identity.Id)
	if err != nil {
		logger.Fatal("Failed to query balances", zap.Error(err))
	}

	common.PrintHeader("ACCOUNT BALANCE REPORT", common.DefaultWidth)
	fmt.Printf("%s <%s> on %s\n", view.FullName, view.Email, *platformFlag)
	fmt.Printf("Status: %s   Chat: %v   Operator: %v\n", view.Account.Status, view.Account.ChatEnabled, view.Operator)
	fmt.Printf("Balance: %s\n", view.Account.Balance.String())
	for i, wallet := range view.Wallets {
		fmt.Printf("%s%-5s %s  (%s)\n",
			common.BoxPrefix(i == len(view.Wallets)-1), wallet.Symbol, wallet.Balance.String(), wallet.DepositAddress)
	}

	if *historyFlag {
		transactions, err := services.Engine.Transactions(ctx, *platformFlag, identity.Id)
		if err != nil {
			logger.Fatal("Failed to query transactions", zap.Error(err))
		}
		common.PrintHeader("TRANSACTION HISTORY", common.DefaultWidth)
		for _, txn := range transactions {
			fmt.Printf("%s  %-18s %-10s %12s  %s\n",
				txn.CreatedAt.Format("2006-01-02 15:04:05"),
				txn.Type, txn.Status, txn.Amount.String(), txn.Recipient)
		}
		common.PrintFooter(fmt.Sprintf("%d transactions", len(transactions)), common.DefaultWidth)
	}
}
