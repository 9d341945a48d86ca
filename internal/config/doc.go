// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for streamchat.
//
// # Key Types
//
//   - Config: endpoint, credential, model and sampling settings
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (STREAMCHAT_*)
//   - A .env file in the working directory
//   - ~/.streamchat/config.toml
//   - Built-in defaults
//
// Endpoint URL, API key and model name are required; Load fails fast when
// any of them is missing so the process can exit before opening a session.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
