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
	"regexp"

	"platform-ledger-go/internal/common"
	"platform-ledger-go/internal/config"

	"go.uber.org/zap"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if len(name) < 2 {
		return fmt.Errorf("name must be at least 2 characters")
	}
	return nil
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	platformFlag := flag.String("platform", "", "Platform to register on (required)")
	emailFlag := flag.String("email", "", "Email address (required)")
	nameFlag := flag.String("name", "", "Full name (required)")
	passwordFlag := flag.String("password", "", "Password (required)")
	mobileFlag := flag.String("mobile", "", "Mobile number (required on mobile-identity platforms)")
	flag.Parse()

	if *platformFlag == "" || *passwordFlag == "" {
		logger.Fatal("Missing required flags: -platform and -password")
	}
	if err := validateEmail(*emailFlag); err != nil {
		logger.Fatal("Invalid email", zap.Error(err))
	}
	if err := validateName(*nameFlag); err != nil {
		logger.Fatal("Invalid name", zap.Error(err))
	}

	cfg := config.Load()
	services, err := common.InitializeServices(ctx, &cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	account, err := services.Engine.Register(ctx, *platformFlag, *emailFlag, *nameFlag, *passwordFlag, *mobileFlag)
	if err != nil {
		logger.Fatal("Registration failed",
			zap.String("platform", *platformFlag),
			zap.String("email", *emailFlag),
			zap.Error(err))
	}

	wallets, err := services.DbService.ListWallets(ctx, account.Id)
	if err != nil {
		logger.Fatal("Failed to list wallets", zap.Error(err))
	}

	common.PrintHeader("REGISTRATION COMPLETE", common.DefaultWidth)
	fmt.Printf("Account:  %s\n", account.Id)
	fmt.Printf("Platform: %s\n", *platformFlag)
	fmt.Printf("Balance:  %s\n", account.Balance.String())
	for i, wallet := range wallets {
		fmt.Printf("%s%s wallet %s  address %s\n",
			common.BoxPrefix(i == len(wallets)-1), wallet.Symbol, wallet.Balance.String(), wallet.DepositAddress)
	}
}
