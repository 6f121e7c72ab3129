// Package models holds the GORM row types behind each aggregate. Domain types
// carry no struct tags; every row type here converts with ToDomain and a
// matching XxxModelFromDomain constructor.
package models
