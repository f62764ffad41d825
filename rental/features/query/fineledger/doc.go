// Package fineledger implements the Fine Balance query use case.
package fineledger
