package component

// Currency is a pickup worth Value to whichever wallet touches it.
type Currency struct {
	Value uint32
}

var CurrencyComponent = NewComponent[Currency]()

type Wallet struct {
	Balance uint32
}

var WalletComponent = NewComponent[Wallet]()
