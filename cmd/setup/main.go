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
	"errors"
	"flag"
	"fmt"

	"platform-ledger-go/internal/common"
	"platform-ledger-go/internal/config"
	"platform-ledger-go/internal/store"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	passwordFlag := flag.String("password", "", "Password for the operator accounts (required)")
	nameFlag := flag.String("name", "Platform Operator", "Full name for the operator accounts")
	mobileFlag := flag.String("mobile", "+15550000001", "Mobile number for mobile-identity platform operators")
	flag.Parse()

	if *passwordFlag == "" {
		logger.Fatal("Missing required flag: -password")
	}

	cfg := config.Load()
	services, err := common.InitializeServices(ctx, &cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	common.PrintHeader("PLATFORM SETUP", common.DefaultWidth)

	provisioned := 0
	for _, name := range services.Registry.Names() {
		account, err := services.Engine.RegisterOperator(ctx, name, *nameFlag, *passwordFlag, *mobileFlag)
		if errors.Is(err, store.ErrDuplicateAccount) {
			fmt.Printf("  %-12s operator already provisioned\n", name)
			continue
		}
		if err != nil {
			logger.Fatal("Failed to provision operator",
				zap.String("platform", name),
				zap.Error(err))
		}
		fmt.Printf("  %-12s operator account %s (balance %s)\n",
			name, account.Id, account.Balance.String())
		provisioned++
	}

	common.PrintFooter(fmt.Sprintf("SETUP COMPLETE: %d operator accounts provisioned", provisioned), common.DefaultWidth)
}
