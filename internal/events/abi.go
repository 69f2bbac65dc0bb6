package events

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Event names
const (
	GamePublished             = "GamePublished"
	GameRegistered            = "GameRegistered"
	GameActiveSet             = "GameActiveSet"
	MetadataPublished         = "MetadataPublished"
	ContractMetadataPublished = "ContractMetadataPublished"
	Purchased                 = "Purchased"
	PriceUpdated              = "PriceUpdated"
	MaxSupplyUpdated          = "MaxSupplyUpdated"
	TreasuryRouterUpdated     = "TreasuryRouterUpdated"
	DeveloperRecipientUpdated = "DeveloperRecipientUpdated"
	PlatformFeeBpsUpdated     = "PlatformFeeBpsUpdated"
	OwnershipTransferred      = "OwnershipTransferred"
	TransferSingle            = "TransferSingle"
	ApprovalForAll            = "ApprovalForAll"
	PublisherSet              = "PublisherSet"
	AllowlistEnabledSet       = "AllowlistEnabledSet"
	RegistrySet               = "RegistrySet"
	FeeConfigSet              = "FeeConfigSet"
	FactorySet                = "FactorySet"
	Transfer                  = "Transfer"
	Approval                  = "Approval"
)

// eventsABI is the union of the events emitted by the sale, factory,
// registry and payment token contracts
const eventsABI = `[
	{"type":"event","name":"GamePublished","inputs":[
		{"name":"gameId","type":"bytes32","indexed":true},
		{"name":"publisher","type":"address","indexed":true},
		{"name":"saleContract","type":"address","indexed":false}]},
	{"type":"event","name":"GameRegistered","inputs":[
		{"name":"gameId","type":"bytes32","indexed":true},
		{"name":"saleContract","type":"address","indexed":true},
		{"name":"publisher","type":"address","indexed":true},
		{"name":"createdAt","type":"uint64","indexed":false}]},
	{"type":"event","name":"GameActiveSet","inputs":[
		{"name":"gameId","type":"bytes32","indexed":true},
		{"name":"active","type":"bool","indexed":false}]},
	{"type":"event","name":"MetadataPublished","inputs":[
		{"name":"version","type":"uint256","indexed":true},
		{"name":"hash","type":"bytes32","indexed":false},
		{"name":"uri","type":"string","indexed":false}]},
	{"type":"event","name":"ContractMetadataPublished","inputs":[
		{"name":"version","type":"uint256","indexed":true},
		{"name":"hash","type":"bytes32","indexed":false},
		{"name":"uri","type":"string","indexed":false}]},
	{"type":"event","name":"Purchased","inputs":[
		{"name":"buyer","type":"address","indexed":true},
		{"name":"amountPaid","type":"uint256","indexed":false},
		{"name":"licenseId","type":"uint256","indexed":false}]},
	{"type":"event","name":"PriceUpdated","inputs":[
		{"name":"price","type":"uint256","indexed":false}]},
	{"type":"event","name":"MaxSupplyUpdated","inputs":[
		{"name":"maxSupply","type":"uint256","indexed":false}]},
	{"type":"event","name":"TreasuryRouterUpdated","inputs":[
		{"name":"treasuryRouter","type":"address","indexed":false}]},
	{"type":"event","name":"DeveloperRecipientUpdated","inputs":[
		{"name":"developerRecipient","type":"address","indexed":false}]},
	{"type":"event","name":"PlatformFeeBpsUpdated","inputs":[
		{"name":"platformFeeBps","type":"uint16","indexed":false}]},
	{"type":"event","name":"OwnershipTransferred","inputs":[
		{"name":"previousOwner","type":"address","indexed":true},
		{"name":"newOwner","type":"address","indexed":true}]},
	{"type":"event","name":"TransferSingle","inputs":[
		{"name":"operator","type":"address","indexed":true},
		{"name":"from","type":"address","indexed":true},
		{"name":"to","type":"address","indexed":true},
		{"name":"id","type":"uint256","indexed":false},
		{"name":"value","type":"uint256","indexed":false}]},
	{"type":"event","name":"ApprovalForAll","inputs":[
		{"name":"account","type":"address","indexed":true},
		{"name":"operator","type":"address","indexed":true},
		{"name":"approved","type":"bool","indexed":false}]},
	{"type":"event","name":"PublisherSet","inputs":[
		{"name":"publisher","type":"address","indexed":true},
		{"name":"allowed","type":"bool","indexed":false}]},
	{"type":"event","name":"AllowlistEnabledSet","inputs":[
		{"name":"enabled","type":"bool","indexed":false}]},
	{"type":"event","name":"RegistrySet","inputs":[
		{"name":"registry","type":"address","indexed":true}]},
	{"type":"event","name":"FeeConfigSet","inputs":[
		{"name":"feeRecipient","type":"address","indexed":false},
		{"name":"feeToken","type":"address","indexed":false},
		{"name":"publishFee","type":"uint256","indexed":false}]},
	{"type":"event","name":"FactorySet","inputs":[
		{"name":"factory","type":"address","indexed":true}]},
	{"type":"event","name":"Transfer","inputs":[
		{"name":"from","type":"address","indexed":true},
		{"name":"to","type":"address","indexed":true},
		{"name":"value","type":"uint256","indexed":false}]},
	{"type":"event","name":"Approval","inputs":[
		{"name":"owner","type":"address","indexed":true},
		{"name":"spender","type":"address","indexed":true},
		{"name":"value","type":"uint256","indexed":false}]}
]`

// ABI is the parsed event ABI
var ABI = mustParse(eventsABI)

func mustParse(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}
