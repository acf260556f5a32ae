package reclass_test

import (
	"fmt"
	"log"

	"github.com/agentstation/reclass"
	"github.com/agentstation/reclass/pkg/hierarchy"
	"github.com/agentstation/reclass/pkg/ledger"
	"github.com/agentstation/reclass/pkg/reconcile"
	"github.com/agentstation/reclass/pkg/records"
)

// Example walks one session over in-memory stores.
func Example() {
	master, err := records.New([]records.Record{
		{ID: "1", SpaceAliasName: "Room 101", SpaceType: "Office", SpaceCategory: "Admin"},
		{ID: "2", SpaceAliasName: "Room 102", SpaceType: "Storage", SpaceCategory: "Support"},
	})
	if err != nil {
		log.Fatal(err)
	}

	rc, err := reclass.New(
		reclass.WithMasterStore(master),
		reclass.WithHierarchyStore(hierarchy.FromOptions(
			hierarchy.Option{Name: "Office", Type: "Private", Category: "Admin"},
			hierarchy.Option{Name: "Office", Type: "Open", Category: "Admin"},
		)),
		reclass.WithLedger(ledger.NewMemory()),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = rc.Close() }()

	sess := rc.NewSession()
	res, err := rc.NextUnresolved(sess)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("reviewing", res.Record.ID)

	opts := rc.CascadeOptions("Office", "")
	fmt.Println(opts.Types, opts.Categories)

	sub, err := rc.Submit(sess, res.Record.ID, reconcile.Selection{Name: "Office", Type: "Open", Category: "Admin"}, "Open Office 1")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("next", sub.Next.Record.ID)

	res, err = rc.Skip(sess, sub.Next.Record.ID)
	if err != nil {
		log.Fatal(err)
	}
	p, err := rc.Progress(sess)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.State, p)
	// Output:
	// reviewing 1
	// [Open Private] [Admin]
	// next 2
	// all_complete 1/2 completed (50.0%), 1 skipped
}
