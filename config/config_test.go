// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/sprintertech/intent-ledger/config"
)

type GetConfigTestSuite struct {
	suite.Suite
}

func TestRunGetConfigTestSuite(t *testing.T) {
	suite.Run(t, new(GetConfigTestSuite))
}

func (s *GetConfigTestSuite) configFile(content string) string {
	path := filepath.Join(s.T().TempDir(), "config.json")
	s.Nil(os.WriteFile(path, []byte(content), 0600))
	return path
}

func (s *GetConfigTestSuite) Test_GetConfigFromFile_MissingFile() {
	_, err := config.GetConfigFromFile(filepath.Join(s.T().TempDir(), "missing.json"))

	s.NotNil(err)
}

func (s *GetConfigTestSuite) Test_GetConfigFromFile_InvalidAdmin() {
	path := s.configFile(`{
		"ledger": {
			"ledgerAddress": "0xCD31A1c9Bec0A1bAa527B26Fde2aDf44059e4c3d",
			"admin": "not an address",
			"vault": "0x02a6E6840F2135D95cD2d9Be8D40b97c3a10d9eB"
		}
	}`)

	_, err := config.GetConfigFromFile(path)

	s.NotNil(err)
}

func (s *GetConfigTestSuite) Test_GetConfigFromFile_FeeRateTooHigh() {
	path := s.configFile(`{
		"ledger": {
			"ledgerAddress": "0xCD31A1c9Bec0A1bAa527B26Fde2aDf44059e4c3d",
			"admin": "0x5c7BCd6E7De5423a257D81B442095A1a6ced35C6",
			"vault": "0x02a6E6840F2135D95cD2d9Be8D40b97c3a10d9eB",
			"feeRateBps": 10001
		}
	}`)

	_, err := config.GetConfigFromFile(path)

	s.NotNil(err)
}

func (s *GetConfigTestSuite) Test_GetConfigFromFile_ValidConfig() {
	path := s.configFile(`{
		"ledger": {
			"id": "ledger-1",
			"env": "TEST",
			"ledgerAddress": "0xCD31A1c9Bec0A1bAa527B26Fde2aDf44059e4c3d",
			"admin": "0x5c7BCd6E7De5423a257D81B442095A1a6ced35C6",
			"vault": "0x02a6E6840F2135D95cD2d9Be8D40b97c3a10d9eB",
			"feeRateBps": 50,
			"storePath": "./lvldbdata",
			"natsUrl": "nats://127.0.0.1:4222"
		}
	}`)

	c, err := config.GetConfigFromFile(path)

	s.Nil(err)
	s.Equal(config.LedgerConfig{
		Id:            "ledger-1",
		Env:           "TEST",
		LogLevel:      "info",
		ApiAddr:       ":8080",
		HealthPort:    9001,
		ChainId:       1,
		LedgerAddress: "0xCD31A1c9Bec0A1bAa527B26Fde2aDf44059e4c3d",
		Admin:         "0x5c7BCd6E7De5423a257D81B442095A1a6ced35C6",
		Vault:         "0x02a6E6840F2135D95cD2d9Be8D40b97c3a10d9eB",
		FeeRateBps:    50,
		StorePath:     "./lvldbdata",
		NatsURL:       "nats://127.0.0.1:4222",
		GCInterval:    3600,
	}, c.LedgerConfig)
}
