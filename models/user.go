/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package models

import (
	"time"

	"github.com/tomoncle/storefront/merge"
	"github.com/uptrace/bun"
)

// User is a registered account. RegisteredAt and LastLogin are stamped when
// the record is created and never touched by an update.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	RoleID       int64     `bun:"role_id,notnull,default:0" json:"role_id" binding:"min=0"`
	FirstName    string    `bun:"first_name,type:varchar(50)" json:"first_name" binding:"max=50"`
	LastName     string    `bun:"last_name,type:varchar(50)" json:"last_name" binding:"max=50"`
	Username     string    `bun:"username,type:varchar(50),notnull" json:"username" binding:"required,max=50"`
	Mobile       string    `bun:"mobile,type:varchar(15)" json:"mobile" binding:"max=15"`
	Email        string    `bun:"email,type:varchar(50)" json:"email" binding:"omitempty,email,max=50"`
	Intro        string    `bun:"intro,type:text" json:"intro"`
	Profile      string    `bun:"profile,type:text" json:"profile"`
	RegisteredAt time.Time `bun:"registered_at,nullzero" json:"registered_at"`
	LastLogin    time.Time `bun:"last_login,nullzero" json:"last_login"`
}

func (u *User) PrimaryKey() int64      { return u.ID }
func (u *User) SetPrimaryKey(id int64) { u.ID = id }

// UserFields lists what a PUT may overwrite.
var UserFields = merge.Fields[User]{
	merge.Set("role_id", func(u *User) int64 { return u.RoleID }, func(u *User, v int64) { u.RoleID = v }),
	merge.Set("first_name", func(u *User) string { return u.FirstName }, func(u *User, v string) { u.FirstName = v }),
	merge.Set("last_name", func(u *User) string { return u.LastName }, func(u *User, v string) { u.LastName = v }),
	merge.Set("username", func(u *User) string { return u.Username }, func(u *User, v string) { u.Username = v }),
	merge.Set("mobile", func(u *User) string { return u.Mobile }, func(u *User, v string) { u.Mobile = v }),
	merge.Set("email", func(u *User) string { return u.Email }, func(u *User, v string) { u.Email = v }),
	merge.Set("intro", func(u *User) string { return u.Intro }, func(u *User, v string) { u.Intro = v }),
	merge.Set("profile", func(u *User) string { return u.Profile }, func(u *User, v string) { u.Profile = v }),
}

// StampRegistration sets both store-managed timestamps to the same instant.
func (u *User) StampRegistration(now time.Time) {
	u.RegisteredAt = now
	u.LastLogin = now
}
