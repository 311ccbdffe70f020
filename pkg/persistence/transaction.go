// Copyright © 2026 OpenCredit Contributors
//
// SPDX-License-Identifier: Apache-2.0
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

package persistence

import (
	"context"

	"gorm.io/gorm"
)

type DBTX interface {
	// Access the Gorm DB object for the transaction
	DB() *gorm.DB
	// Functions to be run at the end of the transaction, before it has committed. An error from these will cause a rollback of the transaction itself
	AddPreCommit(func(ctx context.Context, tx DBTX) error)
	// Only called after a transaction is successfully committed - useful for triggering other actions that are conditional on new data
	AddPostCommit(func(ctx context.Context))
	// Called in all cases (including panic cases) AFTER the transaction completes, to release resources. An error indicates the transaction rolled back.
	AddFinalizer(func(ctx context.Context, err error))
}

type transaction struct {
	txCtx       context.Context
	gdb         *gorm.DB
	preCommits  []func(ctx context.Context, tx DBTX) error
	postCommits []func(ctx context.Context)
	finalizers  []func(ctx context.Context, err error)
}

func (t *transaction) DB() *gorm.DB {
	return t.gdb
}

func (t *transaction) AddPreCommit(fn func(ctx context.Context, tx DBTX) error) {
	t.preCommits = append(t.preCommits, fn)
}

func (t *transaction) AddPostCommit(fn func(ctx context.Context)) {
	t.postCommits = append(t.postCommits, fn)
}

func (t *transaction) AddFinalizer(fn func(ctx context.Context, err error)) {
	t.finalizers = append(t.finalizers, fn)
}

// notx is used for one-shot reads outside of a transaction, where the
// commit/rollback hooks have no meaning
type notx struct {
	gdb *gorm.DB
}

func newNOTX(gdb *gorm.DB) DBTX {
	return &notx{gdb: gdb}
}

func (t *notx) DB() *gorm.DB {
	return t.gdb
}

func (t *notx) AddPreCommit(fn func(ctx context.Context, tx DBTX) error) {
	panic("pre-commit hooks require a transaction")
}

func (t *notx) AddPostCommit(fn func(ctx context.Context)) {
	panic("post-commit hooks require a transaction")
}

func (t *notx) AddFinalizer(fn func(ctx context.Context, err error)) {
	panic("finalizers require a transaction")
}
