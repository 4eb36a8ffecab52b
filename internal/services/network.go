package services

// NetworkInfo describes the storage network the service uploads to.
type NetworkInfo struct {
	Network     string `json:"network"`
	GatewayURL  string `json:"gateway_url"`
	RPCURL      string `json:"rpc_url"`
	ExplorerURL string `json:"explorer_url"`
	FaucetURL   string `json:"faucet_url"`
}

// DevnetInfo returns the Irys devnet endpoints. gateway overrides the
// default gateway when not empty.
func DevnetInfo(gateway string) NetworkInfo {
	if gateway == "" {
		gateway = "https://devnet.irys.xyz"
	}
	return NetworkInfo{
		Network:     "devnet",
		GatewayURL:  gateway,
		RPCURL:      "https://rpc.devnet.irys.xyz/v1",
		ExplorerURL: gateway,
		FaucetURL:   "https://faucet.devnet.irys.xyz",
	}
}
