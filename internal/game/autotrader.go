package game

type autoTrade struct {
	StockID  string
	Quantity int
	Price    float64
}

func updateAutoTrader(s *GameState, stockID string, settings AutoTraderSettings) error {
	if !s.AutoTraderUnlocked {
		return ErrFeatureLocked
	}
	st := s.stock(stockID)
	if st == nil {
		return ErrNotFound
	}
	if settings.BuyQuantity < 0 || settings.SellQuantity < 0 {
		return ErrInvalidQuantity
	}
	st.AutoTrader = cloneStock(Stock{AutoTrader: settings}).AutoTrader
	return nil
}

// runAutoTrader places at most one order per enabled stock through the
// ordinary trade path. Selling takes priority over buying.
func runAutoTrader(s *GameState) []autoTrade {
	if !s.AutoTraderUnlocked {
		return nil
	}
	var trades []autoTrade
	for i := range s.Stocks {
		st := &s.Stocks[i]
		at := st.AutoTrader
		if !at.Enabled {
			continue
		}
		price := st.Price

		sell := (at.SellPriceHigh != nil && price >= *at.SellPriceHigh) ||
			(at.SellPriceLow != nil && price <= *at.SellPriceLow)
		if sell {
			qty := min(at.SellQuantity, st.Owned)
			if qty > 0 && tradeStock(s, st.ID, -qty) == nil {
				trades = append(trades, autoTrade{StockID: st.ID, Quantity: -qty, Price: price})
			}
			continue
		}

		if at.BuyPrice != nil && price <= *at.BuyPrice && at.BuyQuantity > 0 {
			if tradeStock(s, st.ID, at.BuyQuantity) == nil {
				trades = append(trades, autoTrade{StockID: st.ID, Quantity: at.BuyQuantity, Price: price})
			}
		}
	}
	return trades
}
