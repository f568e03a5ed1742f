// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package netsvr 把 HTTP 路由器包成 app.Component，api 只依賴這裡的介面註冊路由。
package netsvr

import (
	"net/http"

	"github.com/zintix-labs/logiclab/server/app"
)

// NetSvr 是可註冊路由、可被 app.App 管理的 HTTP server。
type NetSvr interface {
	NetRouter
	app.Component
	Address() string
}

type NetRouter interface {
	Use(middleware func(http.Handler) http.Handler)

	Get(path string, h http.HandlerFunc)
	Post(path string, h http.HandlerFunc)

	Group(path string, fn func(NetRouter))
}
