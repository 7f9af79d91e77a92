package auction

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// auctionManagerABI is the contract surface the backend calls.
const auctionManagerABI = `[
  {"type":"function","name":"createAuction","stateMutability":"nonpayable","outputs":[],
   "inputs":[
     {"internalType":"string","name":"_name","type":"string"},
     {"internalType":"address","name":"_seller","type":"address"},
     {"internalType":"uint256","name":"_startingBid","type":"uint256"},
     {"internalType":"uint256","name":"_duration","type":"uint256"},
     {"internalType":"string","name":"_description","type":"string"}]},
  {"type":"function","name":"bid","stateMutability":"payable","outputs":[],
   "inputs":[{"internalType":"uint256","name":"_auctionId","type":"uint256"}]},
  {"type":"function","name":"withdrawReturns","stateMutability":"nonpayable","outputs":[],
   "inputs":[{"internalType":"uint256","name":"_auctionId","type":"uint256"}]},
  {"type":"function","name":"endAuction","stateMutability":"nonpayable","outputs":[],
   "inputs":[{"internalType":"uint256","name":"_auctionId","type":"uint256"}]},
  {"type":"function","name":"getAuctionsCount","stateMutability":"view","inputs":[],
   "outputs":[{"internalType":"uint256","name":"","type":"uint256"}]},
  {"type":"function","name":"getAuction","stateMutability":"view",
   "inputs":[{"internalType":"uint256","name":"_auctionId","type":"uint256"}],
   "outputs":[
     {"internalType":"address","name":"seller","type":"address"},
     {"internalType":"string","name":"item","type":"string"},
     {"internalType":"uint256","name":"endTime","type":"uint256"},
     {"internalType":"uint256","name":"highestBid","type":"uint256"},
     {"internalType":"address","name":"highestBidder","type":"address"},
     {"internalType":"bool","name":"ended","type":"bool"}]}
]`

// ParseABI returns the parsed contract ABI.
func ParseABI() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(auctionManagerABI))
}
