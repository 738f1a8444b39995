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
	operatorFlag := flag.String("operator", "", "Operator email (required)")
	actionFlag := flag.String("action", "list", "One of: list, transactions, freeze, chat-toggle, fund, adjust, set-wallet, adjust-wallet, new-address, delete")
	targetFlag := flag.String("target", "", "Target account email")
	symbolFlag := flag.String("symbol", "", "Wallet symbol for wallet actions")
	amountFlag := flag.String("amount", "", "Amount or delta for balance actions")
	reasonFlag := flag.String("reason", "admin adjustment", "Reason recorded on the audit row")
	flag.Parse()

	if *platformFlag == "" || *operatorFlag == "" {
		logger.Fatal("Missing required flags: -platform and -operator")
	}

	cfg := config.Load()
	services, err := common.InitializeServices(ctx, &cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	operator, err := services.DbService.GetIdentityByEmail(ctx, *operatorFlag)
	if err != nil {
		logger.Fatal("Unknown operator", zap.String("email", *operatorFlag), zap.Error(err))
	}

	eng := services.Engine
	switch *actionFlag {
	case "list":
		views, err := eng.ListAccounts(ctx, *platformFlag, operator.Id)
		if err != nil {
			logger.Fatal("Failed to list accounts", zap.Error(err))
		}
		common.PrintHeader("PLATFORM ACCOUNTS", common.WideWidth)
		for _, view := range views {
			fmt.Printf("%-30s %-8s balance %12s  chat=%v operator=%v\n",
				view.Email, view.Account.Status, view.Account.Balance.String(),
				view.Account.ChatEnabled, view.Operator)
			for i, wallet := range view.Wallets {
				fmt.Printf("  %s%-5s %s\n",
					common.BoxPrefix(i == len(view.Wallets)-1), wallet.Symbol, wallet.Balance.String())
			}
		}
		common.PrintFooter(fmt.Sprintf("%d accounts", len(views)), common.WideWidth)

	case "transactions":
		transactions, err := eng.AllTransactions(ctx, *platformFlag, operator.Id)
		if err != nil {
			logger.Fatal("Failed to list transactions", zap.Error(err))
		}
		common.PrintHeader("PLATFORM TRANSACTIONS", common.WideWidth)
		for _, txn := range transactions {
			fmt.Printf("%s  %-18s %-10s %12s  %s\n",
				txn.CreatedAt.Format("2006-01-02 15:04:05"),
				txn.Type, txn.Status, txn.Amount.String(), txn.Recipient)
		}
		common.PrintFooter(fmt.Sprintf("%d transactions", len(transactions)), common.WideWidth)

	case "freeze":
		status, err := eng.FreezeToggle(ctx, *platformFlag, operator.Id, *targetFlag)
		if err != nil {
			logger.Fatal("Failed to toggle account status", zap.Error(err))
		}
		fmt.Printf("Account %s is now %s\n", *targetFlag, status)

	case "chat-toggle":
		enabled, err := services.Chat.Toggle(ctx, *platformFlag, operator.Id, *targetFlag)
		if err != nil {
			logger.Fatal("Failed to toggle chat", zap.Error(err))
		}
		fmt.Printf("Chat for %s is now enabled=%v\n", *targetFlag, enabled)

	case "fund":
		if err := eng.FundAccount(ctx, *platformFlag, operator.Id, *targetFlag, *amountFlag, *reasonFlag); err != nil {
			logger.Fatal("Failed to fund account", zap.Error(err))
		}
		fmt.Printf("Applied %s to %s\n", *amountFlag, *targetFlag)

	case "adjust":
		if err := eng.AdjustAccountBalance(ctx, *platformFlag, operator.Id, *targetFlag, *amountFlag, *reasonFlag); err != nil {
			logger.Fatal("Failed to adjust account", zap.Error(err))
		}
		fmt.Printf("Adjusted %s by %s\n", *targetFlag, *amountFlag)

	case "set-wallet":
		old, err := eng.SetWalletBalance(ctx, *platformFlag, operator.Id, *targetFlag, *symbolFlag, *amountFlag, *reasonFlag)
		if err != nil {
			logger.Fatal("Failed to set wallet balance", zap.Error(err))
		}
		fmt.Printf("Set %s %s wallet to %s (was %s)\n", *targetFlag, *symbolFlag, *amountFlag, old.String())

	case "adjust-wallet":
		if err := eng.AdjustWalletBalance(ctx, *platformFlag, operator.Id, *targetFlag, *symbolFlag, *amountFlag, *reasonFlag); err != nil {
			logger.Fatal("Failed to adjust wallet", zap.Error(err))
		}
		fmt.Printf("Adjusted %s %s wallet by %s\n", *targetFlag, *symbolFlag, *amountFlag)

	case "new-address":
		address, err := eng.ReplaceDepositAddress(ctx, *platformFlag, operator.Id, *targetFlag, *symbolFlag)
		if err != nil {
			logger.Fatal("Failed to replace deposit address", zap.Error(err))
		}
		fmt.Printf("New %s deposit address for %s: %s\n", *symbolFlag, *targetFlag, address)

	case "delete":
		if err := eng.DeleteIdentity(ctx, *platformFlag, operator.Id, *targetFlag); err != nil {
			logger.Fatal("Failed to delete identity", zap.Error(err))
		}
		fmt.Printf("Deleted identity %s\n", *targetFlag)

	default:
		logger.Fatal("Unknown action", zap.String("action", *actionFlag))
	}
}
