package hotwallet

var LoadWithScrypt = load
