// Copyright 2025-2026 Oliver Eikemeier. All Rights Reserved.
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
//
// SPDX-License-Identifier: Apache-2.0

package noreturn

import (
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"k8s.io/klog"
	klog2 "k8s.io/klog/v2"
)

func zapLog() {
	log := zap.NewNop()

	log.Fatal("") // want "exits"
	log.Panic("") // want "panics"

	sugar := log.Sugar()

	sugar.Fatalw("") // want "exits"
	sugar.Panicw("") // want "panics"
	sugar.Infow("")
}

func logrusLog() {
	log := logrus.New()

	log.Exit(1)   // want "exits"
	log.Panicln() // want "panics"

	entry := logrus.NewEntry(log)

	entry.Panicf("") // want "panics"
	entry.Info()
}

func kLog() {
	klog.Exitf("")     // want "exits"
	klog.FatalDepth(0) // want "exits"

	klog2.Exitln()   // want "exits"
	klog2.Fatalf("") // want "exits"
}
